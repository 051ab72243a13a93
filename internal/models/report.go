package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Queue length categories.
const (
	QueueNone   = "none"
	QueueShort  = "short"
	QueueMedium = "medium"
	QueueLong   = "long"
	QueueFull   = "full"
)

// Door policy categories.
const (
	DoorRelaxed    = "relaxed"
	DoorStandard   = "standard"
	DoorStrict     = "strict"
	DoorVeryStrict = "very_strict"
	DoorImpossible = "impossible"
)

// Capacity categories.
const (
	CapacityEmpty       = "empty"
	CapacityComfortable = "comfortable"
	CapacityBusy        = "busy"
	CapacityPacked      = "packed"
)

// Report is a community-submitted venue status snapshot. Reports are never
// updated after creation; a newer report supersedes an older one.
type Report struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VenueID     string         `gorm:"size:50;not null;index" json:"venue_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	QueueLength string         `gorm:"size:20;not null" json:"queue_length"`
	DoorPolicy  string         `gorm:"size:20;not null" json:"door_policy"`
	Capacity    string         `gorm:"size:20;not null" json:"capacity"`
	Vibe        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"vibe"`
	VibeDetails string         `gorm:"size:100" json:"vibe_details,omitempty"`
	PhotoURL    string         `gorm:"size:500" json:"photo_url,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	Venue       Venue          `gorm:"foreignKey:VenueID" json:"-"`
}
