package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteStore persists helpfulness votes with upsert semantics: one active
// vote per (report, user), later votes overwrite.
type VoteStore struct {
	db *gorm.DB
}

func NewVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db}
}

func (s *VoteStore) Upsert(ctx context.Context, reportID, userID, kind string) error {
	rid, err := uuid.Parse(reportID)
	if err != nil {
		return fmt.Errorf("parse report id: %w", err)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}

	vote := models.Vote{
		ID:       uuid.New(),
		ReportID: rid,
		UserID:   uid,
		Kind:     kind,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "report_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"kind": kind, "updated_at": time.Now()}),
	}).Create(&vote).Error
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

func (s *VoteStore) QueryByUser(ctx context.Context, userID string) (map[string]string, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}

	var votes []models.Vote
	if err := s.db.WithContext(ctx).Where("user_id = ?", uid).Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("query votes by user: %w", err)
	}

	out := make(map[string]string, len(votes))
	for _, v := range votes {
		out[v.ReportID.String()] = v.Kind
	}
	return out, nil
}
