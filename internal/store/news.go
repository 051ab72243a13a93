package store

import (
	"context"
	"fmt"

	"github.com/nachtkarte/nachtkarte/internal/feed"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/gorm"
)

// NewsStore is the GORM-backed news store. The feed core only reads it;
// writes come from editorial and ingestion processes.
type NewsStore struct {
	db       *gorm.DB
	notifier *feed.Notifier
}

func NewNewsStore(db *gorm.DB, notifier *feed.Notifier) *NewsStore {
	return &NewsStore{db: db, notifier: notifier}
}

func (s *NewsStore) QueryRecent(ctx context.Context, limit, offset int, venueID string) ([]feed.NewsItem, error) {
	q := s.db.WithContext(ctx).Model(&models.News{}).
		Order("published_at DESC").
		Limit(limit).
		Offset(offset)
	if venueID != "" {
		// Venue-agnostic items stay in every venue's view.
		q = q.Where("venue_id = ? OR venue_id IS NULL", venueID)
	}

	var rows []models.News
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query recent news: %w", err)
	}

	out := make([]feed.NewsItem, len(rows))
	for i, row := range rows {
		venue := ""
		if row.VenueID != nil {
			venue = *row.VenueID
		}
		out[i] = feed.NewsItem{
			ID:          row.ID.String(),
			Title:       row.Title,
			Content:     row.Content,
			Source:      row.Source,
			SourceURL:   row.SourceURL,
			VenueID:     venue,
			AuthorName:  row.AuthorName,
			ImageURL:    row.ImageURL,
			Tags:        jsonStrings(row.Tags),
			PublishedAt: row.PublishedAt,
		}
	}
	return out, nil
}

// Insert persists a news item and notifies feed subscribers.
func (s *NewsStore) Insert(ctx context.Context, item *models.News) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	s.notifier.Notify()
	return nil
}
