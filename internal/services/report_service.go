package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nachtkarte/nachtkarte/internal/config"
	"github.com/nachtkarte/nachtkarte/internal/dto"
	"github.com/nachtkarte/nachtkarte/internal/models"
	"github.com/nachtkarte/nachtkarte/internal/store"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrUnknownVenue   = errors.New("unknown venue")
	ErrCooldownActive = errors.New("cooldown active for this venue")
)

var queueLengths = map[string]bool{
	models.QueueNone: true, models.QueueShort: true, models.QueueMedium: true,
	models.QueueLong: true, models.QueueFull: true,
}

var doorPolicies = map[string]bool{
	models.DoorRelaxed: true, models.DoorStandard: true, models.DoorStrict: true,
	models.DoorVeryStrict: true, models.DoorImpossible: true,
}

var capacities = map[string]bool{
	models.CapacityEmpty: true, models.CapacityComfortable: true,
	models.CapacityBusy: true, models.CapacityPacked: true,
}

// ReportService handles report submission and user activity stats.
type ReportService struct {
	db      *gorm.DB
	reports *store.ReportStore
	cfg     *config.Config
}

func NewReportService(db *gorm.DB, reports *store.ReportStore, cfg *config.Config) *ReportService {
	return &ReportService{db: db, reports: reports, cfg: cfg}
}

// Submit validates and persists a new status report. One report per user per
// venue per cooldown window; a fresh report supersedes rather than edits.
// Each accepted report awards points.
func (s *ReportService) Submit(ctx context.Context, userID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if err := validateReport(req); err != nil {
		return nil, err
	}

	var venue models.Venue
	if err := s.db.WithContext(ctx).First(&venue, "id = ?", req.VenueID).Error; err != nil {
		return nil, ErrUnknownVenue
	}

	last, err := s.reports.LastByUserAndVenue(ctx, userID.String(), req.VenueID)
	if err == nil && time.Since(last.CreatedAt) < s.cfg.ReportCooldown {
		remaining := s.cfg.ReportCooldown - time.Since(last.CreatedAt)
		return nil, fmt.Errorf("%w: wait %d more minute(s)", ErrCooldownActive, int(remaining.Minutes())+1)
	}

	vibe, err := json.Marshal(req.Vibe)
	if err != nil {
		return nil, fmt.Errorf("encode vibe tags: %w", err)
	}

	report := models.Report{
		ID:          uuid.New(),
		VenueID:     req.VenueID,
		UserID:      userID,
		QueueLength: req.QueueLength,
		DoorPolicy:  req.DoorPolicy,
		Capacity:    req.Capacity,
		Vibe:        datatypes.JSON(vibe),
		VibeDetails: req.VibeDetails,
		PhotoURL:    req.PhotoURL,
	}
	if err := s.reports.Insert(ctx, &report); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", s.cfg.PointsPerReport)).Error; err != nil {
		// Points are a side reward; the report itself already landed.
		return &report, nil
	}

	return &report, nil
}

// UserStats returns a user's contribution summary.
func (s *ReportService) UserStats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error) {
	var reports []models.Report
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("load user reports: %w", err)
	}

	venues := make(map[string]bool)
	for _, r := range reports {
		venues[r.VenueID] = true
	}

	recent := make([]dto.RecentReport, 0, 5)
	for i, r := range reports {
		if i >= 5 {
			break
		}
		recent = append(recent, dto.RecentReport{
			VenueID:     r.VenueID,
			QueueLength: r.QueueLength,
			CreatedAt:   r.CreatedAt,
		})
	}

	return &dto.UserStatsResponse{
		ReportCount:    len(reports),
		Points:         len(reports) * s.cfg.PointsPerReport,
		VenuesReported: len(venues),
		RecentReports:  recent,
	}, nil
}

func validateReport(req *dto.CreateReportRequest) error {
	if !queueLengths[req.QueueLength] {
		return errors.New("invalid queue_length")
	}
	if !doorPolicies[req.DoorPolicy] {
		return errors.New("invalid door_policy")
	}
	if !capacities[req.Capacity] {
		return errors.New("invalid capacity")
	}
	if len(req.Vibe) > 3 {
		return errors.New("at most 3 vibe tags")
	}
	if len(req.VibeDetails) > 100 {
		return errors.New("vibe_details must be 100 characters or fewer")
	}
	return nil
}
