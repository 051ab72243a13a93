package models

import (
	"time"
)

// Venue is static directory data (name, coordinates). Seeded at startup and
// never mutated by the feed core; the aggregators only read it for display
// joins and distance computation.
type Venue struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	LogoURL   string    `gorm:"size:500" json:"logo_url,omitempty"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}
