package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nachtkarte/nachtkarte/internal/dto"
	"github.com/nachtkarte/nachtkarte/internal/feed"
	"github.com/nachtkarte/nachtkarte/internal/middleware"
)

// FeedHandler serves the unified feed and the vote/flag mutations.
type FeedHandler struct {
	aggregator *feed.Aggregator
}

func NewFeedHandler(aggregator *feed.Aggregator) *FeedHandler {
	return &FeedHandler{aggregator: aggregator}
}

// GetFeed handles GET /api/feed
func (h *FeedHandler) GetFeed(c *fiber.Ctx) error {
	filter := c.Query("filter", feed.FilterAll)
	sortBy := c.Query("sort", feed.SortRecent)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	venueID := c.Query("venue_id")
	if limit > 100 {
		limit = 100
	}

	var loc *feed.Location
	if latStr, lonStr := c.Query("lat"), c.Query("lon"); latStr != "" && lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat == nil && errLon == nil {
			loc = &feed.Location{Lat: lat, Lon: lon}
		}
	}
	if sortBy == feed.SortNearby && loc == nil {
		return badRequest(c, "sort=nearby requires lat and lon")
	}

	userID := ""
	if uid, err := middleware.GetUserID(c); err == nil {
		userID = uid.String()
	}

	items := h.aggregator.GetPage(c.UserContext(), userID, filter, sortBy, limit, offset, loc, venueID)
	return c.JSON(fiber.Map{
		"data":   items,
		"limit":  limit,
		"offset": offset,
	})
}

// Vote handles POST /api/reports/:id/vote
func (h *FeedHandler) Vote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err = h.aggregator.Vote(c.UserContext(), c.Params("id"), userID.String(), req.Kind)
	if err != nil {
		if errors.Is(err, feed.ErrInvalidVoteKind) {
			return badRequest(c, "kind must be helpful or unhelpful")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Vote failed"})
	}

	return c.JSON(fiber.Map{"message": "vote recorded"})
}

// Flag handles POST /api/reports/:id/flag
func (h *FeedHandler) Flag(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.FlagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err = h.aggregator.Flag(c.UserContext(), c.Params("id"), userID.String(), req.Reason, req.Details)
	if err != nil {
		if errors.Is(err, feed.ErrAlreadyFlagged) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: "You have already flagged this report"})
		}
		if errors.Is(err, feed.ErrInvalidFlagReason) {
			return badRequest(c, "invalid flag reason")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Flag failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "report flagged"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}
