package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nachtkarte/nachtkarte/internal/feed"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/gorm"
)

// ReportStore is the GORM-backed report store. Inserts publish a change
// notification so feed consumers reload.
type ReportStore struct {
	db       *gorm.DB
	notifier *feed.Notifier
}

func NewReportStore(db *gorm.DB, notifier *feed.Notifier) *ReportStore {
	return &ReportStore{db: db, notifier: notifier}
}

// reportRow is a report joined with the submitter and its vote tallies.
type reportRow struct {
	models.Report
	Username       string
	AvatarURL      string
	HelpfulCount   int
	UnhelpfulCount int
}

const voteCountSelect = `reports.*, users.username AS username, users.avatar_url AS avatar_url,
	(SELECT count(*) FROM report_votes v WHERE v.report_id = reports.id AND v.kind = 'helpful') AS helpful_count,
	(SELECT count(*) FROM report_votes v WHERE v.report_id = reports.id AND v.kind = 'unhelpful') AS unhelpful_count`

func (s *ReportStore) QueryByVenue(ctx context.Context, venueID string, limit int) ([]feed.Report, error) {
	var rows []reportRow
	err := s.db.WithContext(ctx).Model(&models.Report{}).
		Select(voteCountSelect).
		Joins("LEFT JOIN users ON users.id = reports.user_id").
		Where("reports.venue_id = ?", venueID).
		Order("reports.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query reports by venue: %w", err)
	}
	return toFeedReports(rows), nil
}

func (s *ReportStore) QueryRecent(ctx context.Context, limit, offset int, venueID string) ([]feed.Report, error) {
	q := s.db.WithContext(ctx).Model(&models.Report{}).
		Select(voteCountSelect).
		Joins("LEFT JOIN users ON users.id = reports.user_id").
		Order("reports.created_at DESC").
		Limit(limit).
		Offset(offset)
	if venueID != "" {
		q = q.Where("reports.venue_id = ?", venueID)
	}

	var rows []reportRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query recent reports: %w", err)
	}
	return toFeedReports(rows), nil
}

func (s *ReportStore) RecentCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	type venueCount struct {
		VenueID string
		Count   int
	}
	var rows []venueCount
	err := s.db.WithContext(ctx).Model(&models.Report{}).
		Select("venue_id, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("venue_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count recent reports: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.VenueID] = r.Count
	}
	return counts, nil
}

// Insert persists a new report and notifies subscribers. Reports are
// append-only: there is no update path.
func (s *ReportStore) Insert(ctx context.Context, report *models.Report) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	s.notifier.Notify()
	return nil
}

// LastByUserAndVenue returns the user's most recent report for a venue, or
// gorm.ErrRecordNotFound. Used for the submission cooldown.
func (s *ReportStore) LastByUserAndVenue(ctx context.Context, userID, venueID string) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND venue_id = ?", userID, venueID).
		Order("created_at DESC").
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func toFeedReports(rows []reportRow) []feed.Report {
	out := make([]feed.Report, len(rows))
	for i, row := range rows {
		username := row.Username
		if username == "" {
			username = "Anonymous"
		}
		out[i] = feed.Report{
			ID:             row.ID.String(),
			VenueID:        row.VenueID,
			UserID:         row.UserID.String(),
			Username:       username,
			AvatarURL:      row.AvatarURL,
			QueueLength:    row.QueueLength,
			DoorPolicy:     row.DoorPolicy,
			Capacity:       row.Capacity,
			Vibe:           jsonStrings(row.Vibe),
			VibeDetails:    row.VibeDetails,
			PhotoURL:       row.PhotoURL,
			HelpfulCount:   row.HelpfulCount,
			UnhelpfulCount: row.UnhelpfulCount,
			CreatedAt:      row.CreatedAt,
		}
	}
	return out
}

func jsonStrings(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}
