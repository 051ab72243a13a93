package store

import (
	"context"
	"fmt"

	"github.com/nachtkarte/nachtkarte/internal/feed"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/gorm"
)

// VenueStore reads the static venue directory.
type VenueStore struct {
	db *gorm.DB
}

func NewVenueStore(db *gorm.DB) *VenueStore {
	return &VenueStore{db: db}
}

func (s *VenueStore) List(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&venues).Error; err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// Directory returns the venue list in the shape the aggregators take. Loaded
// once at startup; the directory is static.
func (s *VenueStore) Directory(ctx context.Context) ([]feed.Venue, error) {
	venues, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]feed.Venue, len(venues))
	for i, v := range venues {
		out[i] = feed.Venue{
			ID:      v.ID,
			Name:    v.Name,
			LogoURL: v.LogoURL,
			Lat:     v.Latitude,
			Lon:     v.Longitude,
		}
	}
	return out, nil
}
