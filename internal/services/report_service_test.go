package services

import (
	"strings"
	"testing"

	"github.com/nachtkarte/nachtkarte/internal/dto"
)

func validRequest() *dto.CreateReportRequest {
	return &dto.CreateReportRequest{
		VenueID:     "berghain",
		QueueLength: "long",
		DoorPolicy:  "strict",
		Capacity:    "busy",
		Vibe:        []string{"dark", "techno"},
	}
}

func TestValidateReportAcceptsValidInput(t *testing.T) {
	if err := validateReport(validRequest()); err != nil {
		t.Errorf("Expected valid request to pass, got %v", err)
	}
}

func TestValidateReportRejectsBadEnums(t *testing.T) {
	req := validRequest()
	req.QueueLength = "endless"
	if err := validateReport(req); err == nil {
		t.Error("Expected invalid queue_length to be rejected")
	}

	req = validRequest()
	req.DoorPolicy = "open"
	if err := validateReport(req); err == nil {
		t.Error("Expected invalid door_policy to be rejected")
	}

	req = validRequest()
	req.Capacity = "overflowing"
	if err := validateReport(req); err == nil {
		t.Error("Expected invalid capacity to be rejected")
	}
}

func TestValidateReportLimits(t *testing.T) {
	req := validRequest()
	req.Vibe = []string{"dark", "techno", "industrial", "loud"}
	if err := validateReport(req); err == nil {
		t.Error("Expected more than 3 vibe tags to be rejected")
	}

	req = validRequest()
	req.VibeDetails = strings.Repeat("x", 101)
	if err := validateReport(req); err == nil {
		t.Error("Expected over-long vibe_details to be rejected")
	}
}
