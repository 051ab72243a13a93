package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event is a venue event listing. Rows come from seeding or the external
// ingestion pipeline; the API only reads them.
type Event struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VenueID   string         `gorm:"size:50;not null;index" json:"venue_id"`
	Title     string         `gorm:"not null;size:200" json:"title"`
	Lineup    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"lineup"`
	StartsAt  time.Time      `gorm:"not null;index" json:"starts_at"`
	SourceURL string         `gorm:"size:500" json:"source_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Venue     Venue          `gorm:"foreignKey:VenueID" json:"-"`
}
