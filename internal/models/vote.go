package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote kinds.
const (
	VoteHelpful   = "helpful"
	VoteUnhelpful = "unhelpful"
)

// Vote is one user's helpfulness verdict on a report. The (report, user)
// pair is unique; a later vote overwrites the earlier one.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_report_user" json:"report_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_report_user" json:"user_id"`
	Kind      string    `gorm:"size:20;not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Vote) TableName() string {
	return "report_votes"
}
