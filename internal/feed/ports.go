package feed

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyFlagged is returned when a user flags the same report twice.
var ErrAlreadyFlagged = errors.New("report already flagged by this user")

// ReportSource is the query surface of the report store. Cross-venue listing
// is paginated; per-venue listing is limit-only, which is why the timeline
// fans out one query per venue.
type ReportSource interface {
	// QueryByVenue returns the most recent reports for one venue.
	QueryByVenue(ctx context.Context, venueID string, limit int) ([]Report, error)

	// QueryRecent returns reports across venues ordered by creation time
	// descending. An empty venueID means no venue filter.
	QueryRecent(ctx context.Context, limit, offset int, venueID string) ([]Report, error)

	// RecentCounts returns, per venue, how many reports were created at or
	// after since. Used for confidence classification.
	RecentCounts(ctx context.Context, since time.Time) (map[string]int, error)
}

// NewsSource is the query surface of the news store. When venueID is set,
// venue-agnostic items (no venue reference) are still included.
type NewsSource interface {
	QueryRecent(ctx context.Context, limit, offset int, venueID string) ([]NewsItem, error)
}

// EventSource serves static event listings.
type EventSource interface {
	QueryUpcoming(ctx context.Context, limit int) ([]Event, error)
}

// VoteStore persists helpfulness votes. Upsert overwrites any prior vote by
// the same user on the same report.
type VoteStore interface {
	Upsert(ctx context.Context, reportID, userID, kind string) error

	// QueryByUser returns the user's active votes as reportID -> kind.
	QueryByUser(ctx context.Context, userID string) (map[string]string, error)
}

// FlagStore persists moderation flags. Insert returns ErrAlreadyFlagged when
// the (report, user) pair already exists.
type FlagStore interface {
	Insert(ctx context.Context, reportID, userID, reason, details string) error
}

// Venue is the directory entry the aggregators join against. The list is
// injected; the feed core never talks to venue storage directly.
type Venue struct {
	ID      string
	Name    string
	LogoURL string
	Lat     float64
	Lon     float64
}
