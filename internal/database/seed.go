package database

import (
	"log/slog"
	"time"

	"github.com/nachtkarte/nachtkarte/internal/models"
	"gorm.io/datatypes"
)

// SeedVenues loads the static venue directory on first boot. The directory
// is reference data for the map client and the distance sorts; it is never
// written by the feed core.
func SeedVenues() {
	var count int64
	DB.Model(&models.Venue{}).Count(&count)
	if count > 0 {
		slog.Info("venues already seeded, skipping")
		return
	}

	venues := []models.Venue{
		{ID: "berghain", Name: "Berghain", Latitude: 52.5111, Longitude: 13.4430},
		{ID: "tresor", Name: "Tresor", Latitude: 52.5103, Longitude: 13.4197},
		{ID: "wilde-renate", Name: "Wilde Renate", Latitude: 52.5009, Longitude: 13.4538},
		{ID: "sisyphos", Name: "Sisyphos", Latitude: 52.4909, Longitude: 13.4918},
		{ID: "kitkat", Name: "KitKatClub", Latitude: 52.5110, Longitude: 13.4166},
		{ID: "watergate", Name: "Watergate", Latitude: 52.5010, Longitude: 13.4453},
		{ID: "about-blank", Name: "://about blank", Latitude: 52.5010, Longitude: 13.4689},
		{ID: "klunkerkranich", Name: "Klunkerkranich", Latitude: 52.4818, Longitude: 13.4356},
	}

	for _, venue := range venues {
		if err := DB.Create(&venue).Error; err != nil {
			slog.Error("failed to seed venue", "venue_id", venue.ID, "error", err)
		}
	}
	slog.Info("venue directory seeded", "count", len(venues))
}

// SeedEvents loads a starter set of event listings when the table is empty.
// Ongoing event ingestion happens outside this service.
func SeedEvents() {
	var count int64
	DB.Model(&models.Event{}).Count(&count)
	if count > 0 {
		return
	}

	nextFriday := nextWeekday(time.Now(), time.Friday).Truncate(time.Hour).Add(23 * time.Hour)
	nextSaturday := nextWeekday(time.Now(), time.Saturday).Truncate(time.Hour).Add(22 * time.Hour)

	events := []models.Event{
		{
			VenueID:  "berghain",
			Title:    "Klubnacht",
			Lineup:   datatypes.JSON([]byte(`["Ben Klock","Marcel Dettmann"]`)),
			StartsAt: nextSaturday,
		},
		{
			VenueID:  "tresor",
			Title:    "New Faces",
			Lineup:   datatypes.JSON([]byte(`["Local Resident"]`)),
			StartsAt: nextFriday,
		},
		{
			VenueID:  "sisyphos",
			Title:    "Open Air Weekender",
			Lineup:   datatypes.JSON([]byte(`[]`)),
			StartsAt: nextFriday,
		},
	}

	for _, ev := range events {
		if err := DB.Create(&ev).Error; err != nil {
			slog.Error("failed to seed event", "venue_id", ev.VenueID, "error", err)
		}
	}
	slog.Info("events seeded", "count", len(events))
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	d := (int(day) - int(from.Weekday()) + 7) % 7
	if d == 0 {
		d = 7
	}
	return from.AddDate(0, 0, d)
}
