package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nachtkarte/nachtkarte/internal/feed"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/gorm"
)

// EventStore serves the static event listings.
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) QueryUpcoming(ctx context.Context, limit int) ([]feed.Event, error) {
	var rows []models.Event
	err := s.db.WithContext(ctx).
		Where("starts_at >= ?", time.Now().Add(-12*time.Hour)).
		Order("starts_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}

	out := make([]feed.Event, len(rows))
	for i, row := range rows {
		out[i] = feed.Event{
			ID:       row.ID.String(),
			VenueID:  row.VenueID,
			Title:    row.Title,
			Lineup:   jsonStrings(row.Lineup),
			StartsAt: row.StartsAt,
		}
	}
	return out, nil
}
