package feed

import "time"

// Item types.
const (
	TypeNews   = "news"
	TypeReport = "report"
)

// Timeline item types.
const (
	TimelineReport = "community_report"
	TimelineNews   = "news"
	TimelineEvent  = "event"
)

// Report is the read-side view of a community report: the stored row joined
// with the submitter's username and vote counts, plus the classification
// fields computed on every fetch.
type Report struct {
	ID             string    `json:"id"`
	VenueID        string    `json:"venue_id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	QueueLength    string    `json:"queue_length"`
	DoorPolicy     string    `json:"door_policy"`
	Capacity       string    `json:"capacity"`
	Vibe           []string  `json:"vibe"`
	VibeDetails    string    `json:"vibe_details,omitempty"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	HelpfulCount   int       `json:"helpful_count"`
	UnhelpfulCount int       `json:"unhelpful_count"`
	CreatedAt      time.Time `json:"created_at"`

	// Computed at read time, never stored.
	RecentReportCount int    `json:"recent_report_count"`
	Confidence        string `json:"confidence_level"`
	Freshness         string `json:"freshness"`
}

// NewsItem is the read-side view of a news row.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url,omitempty"`
	VenueID     string    `json:"venue_id,omitempty"`
	AuthorName  string    `json:"author_name,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
}

// Event is the read-side view of an event row.
type Event struct {
	ID       string    `json:"id"`
	VenueID  string    `json:"venue_id"`
	Title    string    `json:"title"`
	Lineup   []string  `json:"lineup"`
	StartsAt time.Time `json:"starts_at"`
}

// Item is a feed entry: exactly one of Report or News is set, matching Type.
// ID and CreatedAt are shared so heterogeneous items sort together.
type Item struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	News      *NewsItem `json:"news_data,omitempty"`
	Report    *Report   `json:"report_data,omitempty"`
}

// TimelineItem is a timeline entry: exactly one payload is set, matching Type.
type TimelineItem struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	VenueID      string    `json:"venue_id"`
	VenueName    string    `json:"venue_name"`
	VenueLogoURL string    `json:"venue_logo_url,omitempty"`
	Report       *Report   `json:"report_data,omitempty"`
	News         *NewsItem `json:"news_data,omitempty"`
	Event        *Event    `json:"event_data,omitempty"`
}
