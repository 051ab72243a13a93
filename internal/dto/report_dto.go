package dto

import "time"

type CreateReportRequest struct {
	VenueID     string   `json:"venue_id"`
	QueueLength string   `json:"queue_length"`
	DoorPolicy  string   `json:"door_policy"`
	Capacity    string   `json:"capacity"`
	Vibe        []string `json:"vibe"`
	VibeDetails string   `json:"vibe_details"`
	PhotoURL    string   `json:"photo_url"`
}

type VoteRequest struct {
	Kind string `json:"kind"`
}

type FlagRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

type UserStatsResponse struct {
	ReportCount    int            `json:"report_count"`
	Points         int            `json:"points"`
	VenuesReported int            `json:"venues_reported"`
	RecentReports  []RecentReport `json:"recent_reports"`
}

type RecentReport struct {
	VenueID     string    `json:"venue_id"`
	QueueLength string    `json:"queue_length"`
	CreatedAt   time.Time `json:"created_at"`
}

type VenueStatusResponse struct {
	Queue       string    `json:"queue"`
	DoorPolicy  string    `json:"door_policy"`
	Capacity    string    `json:"capacity"`
	LastUpdate  time.Time `json:"last_update"`
	ReportCount int       `json:"report_count"`
}
