package models

import (
	"time"

	"github.com/google/uuid"
)

// Flag reasons.
const (
	FlagSpam          = "spam"
	FlagInappropriate = "inappropriate"
	FlagInaccurate    = "inaccurate"
	FlagOther         = "other"
)

// Flag is a moderation flag on a report. At most one per (report, user);
// the unique index turns a duplicate insert into a conflict.
type Flag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_flags_report_user" json:"report_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_flags_report_user" json:"user_id"`
	Reason    string    `gorm:"size:20;not null" json:"reason"`
	Details   string    `gorm:"size:500" json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Flag) TableName() string {
	return "report_flags"
}
