package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nachtkarte/nachtkarte/internal/feed"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/gorm"
)

// FlagStore persists moderation flags. The unique (report, user) index plus
// GORM error translation turns a repeat flag into feed.ErrAlreadyFlagged.
type FlagStore struct {
	db *gorm.DB
}

func NewFlagStore(db *gorm.DB) *FlagStore {
	return &FlagStore{db: db}
}

func (s *FlagStore) Insert(ctx context.Context, reportID, userID, reason, details string) error {
	rid, err := uuid.Parse(reportID)
	if err != nil {
		return fmt.Errorf("parse report id: %w", err)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}

	flag := models.Flag{
		ID:       uuid.New(),
		ReportID: rid,
		UserID:   uid,
		Reason:   reason,
		Details:  details,
	}
	if err := s.db.WithContext(ctx).Create(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return feed.ErrAlreadyFlagged
		}
		return fmt.Errorf("insert flag: %w", err)
	}
	return nil
}

// HasFlagged reports whether the user already flagged the report.
func (s *FlagStore) HasFlagged(ctx context.Context, reportID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Flag{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check flag: %w", err)
	}
	return count > 0, nil
}
