package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nachtkarte/nachtkarte/internal/config"
	"github.com/nachtkarte/nachtkarte/internal/dto"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/gorm"
)

// VenueService serves the venue directory and per-venue aggregated status.
type VenueService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewVenueService(db *gorm.DB, cfg *config.Config) *VenueService {
	return &VenueService{db: db, cfg: cfg}
}

func (s *VenueService) List(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&venues).Error; err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// AggregatedStatus condenses the venue's recent reports into one view: the
// latest values within the status window, plus how many reports back them.
// Returns nil when there is nothing recent enough.
func (s *VenueService) AggregatedStatus(ctx context.Context, venueID string) (*dto.VenueStatusResponse, error) {
	since := time.Now().Add(-s.cfg.StatusWindow)

	var reports []models.Report
	err := s.db.WithContext(ctx).
		Where("venue_id = ? AND created_at >= ?", venueID, since).
		Order("created_at DESC").
		Limit(s.cfg.StatusMaxReports).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("load venue reports: %w", err)
	}
	if len(reports) == 0 {
		return nil, nil
	}

	latest := reports[0]
	return &dto.VenueStatusResponse{
		Queue:       latest.QueueLength,
		DoorPolicy:  latest.DoorPolicy,
		Capacity:    latest.Capacity,
		LastUpdate:  latest.CreatedAt,
		ReportCount: len(reports),
	}, nil
}
