package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nachtkarte/nachtkarte/internal/dto"
	"github.com/nachtkarte/nachtkarte/internal/middleware"
	"github.com/nachtkarte/nachtkarte/internal/services"
	"github.com/nachtkarte/nachtkarte/internal/store"
)

// ReportHandler covers report submission and per-user stats.
type ReportHandler struct {
	reportService *services.ReportService
	reports       *store.ReportStore
}

func NewReportHandler(reportService *services.ReportService, reports *store.ReportStore) *ReportHandler {
	return &ReportHandler{reportService: reportService, reports: reports}
}

// Create handles POST /api/reports
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Submit(c.UserContext(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownVenue):
			return badRequest(c, "Unknown venue")
		case errors.Is(err, services.ErrCooldownActive):
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		default:
			return badRequest(c, err.Error())
		}
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// ByVenue handles GET /api/venues/:id/reports
func (h *ReportHandler) ByVenue(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}

	reports, err := h.reports.QueryByVenue(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load reports"})
	}

	return c.JSON(fiber.Map{"data": reports})
}

// MyStats handles GET /api/users/me/stats
func (h *ReportHandler) MyStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.reportService.UserStats(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load stats"})
	}

	return c.JSON(stats)
}
