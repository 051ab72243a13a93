package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nachtkarte/nachtkarte/internal/dto"
	"github.com/nachtkarte/nachtkarte/internal/services"
)

type VenueHandler struct {
	venueService *services.VenueService
}

func NewVenueHandler(venueService *services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// List handles GET /api/venues
func (h *VenueHandler) List(c *fiber.Ctx) error {
	venues, err := h.venueService.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load venues"})
	}
	return c.JSON(fiber.Map{"data": venues})
}

// Status handles GET /api/venues/:id/status
func (h *VenueHandler) Status(c *fiber.Ctx) error {
	status, err := h.venueService.AggregatedStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load venue status"})
	}
	if status == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": status})
}
