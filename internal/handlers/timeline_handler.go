package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nachtkarte/nachtkarte/internal/dto"
	"github.com/nachtkarte/nachtkarte/internal/feed"
)

// TimelineHandler serves the chronological and distance-ordered timelines.
type TimelineHandler struct {
	timeline *feed.TimelineAggregator
}

func NewTimelineHandler(timeline *feed.TimelineAggregator) *TimelineHandler {
	return &TimelineHandler{timeline: timeline}
}

// GetTimeline handles GET /api/timeline
func (h *TimelineHandler) GetTimeline(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	var filter *feed.TimelineFilter
	types := splitCSV(c.Query("types"))
	venues := splitCSV(c.Query("venues"))
	if len(types) > 0 || len(venues) > 0 {
		filter = &feed.TimelineFilter{Types: types, VenueIDs: venues}
	}

	items, err := h.timeline.GetTimeline(c.UserContext(), limit, offset, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load timeline"})
	}

	return c.JSON(fiber.Map{
		"data":   items,
		"limit":  limit,
		"offset": offset,
	})
}

// GetTimelineNearby handles GET /api/timeline/nearby
func (h *TimelineHandler) GetTimelineNearby(c *fiber.Ctx) error {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return badRequest(c, "lat and lon are required")
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return badRequest(c, "lat and lon must be valid coordinates")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	items, err := h.timeline.GetTimelineByDistance(c.UserContext(), feed.Location{Lat: lat, Lon: lon}, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load timeline"})
	}

	return c.JSON(fiber.Map{
		"data":   items,
		"limit":  limit,
		"offset": offset,
	})
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
