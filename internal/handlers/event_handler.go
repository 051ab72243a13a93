package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nachtkarte/nachtkarte/internal/dto"
	"github.com/nachtkarte/nachtkarte/internal/store"
)

type EventHandler struct {
	events *store.EventStore
}

func NewEventHandler(events *store.EventStore) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /api/events
func (h *EventHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit > 100 {
		limit = 100
	}

	events, err := h.events.QueryUpcoming(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load events"})
	}

	return c.JSON(fiber.Map{"data": events})
}
