package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// News source categories.
const (
	NewsSourceAdmin   = "admin"
	NewsSourceVenue   = "venue"
	NewsSourceScraper = "scraper"
)

// News is an editorial or ingested news item. Read-only to the feed core;
// rows are created by editorial and ingestion processes.
type News struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:200" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Source      string         `gorm:"size:20;not null" json:"source"`
	SourceURL   string         `gorm:"size:500" json:"source_url,omitempty"`
	VenueID     *string        `gorm:"size:50;index" json:"venue_id,omitempty"`
	AuthorName  string         `gorm:"size:100" json:"author_name,omitempty"`
	ImageURL    string         `gorm:"size:500" json:"image_url,omitempty"`
	Tags        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	PublishedAt time.Time      `gorm:"not null;index" json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
