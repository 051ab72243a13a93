package feed

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"
)

// Shared fixtures and fakes for the aggregator and timeline tests.

var testBase = time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)

var testVenues = []Venue{
	{ID: "berghain", Name: "Berghain", Lat: 52.5111, Lon: 13.4430},
	{ID: "sisyphos", Name: "Sisyphos", Lat: 52.4930, Lon: 13.4920},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClassifier() Classifier {
	return Classifier{
		FreshCutoff:      30 * time.Minute,
		RecentCutoff:     2 * time.Hour,
		ConfidenceWindow: 30 * time.Minute,
		HighMin:          3,
		MedMin:           2,
	}
}

type fakeReportSource struct {
	recent  []Report
	byVenue map[string][]Report
	counts  map[string]int

	err       error
	venueErrs map[string]error
}

func (f *fakeReportSource) QueryByVenue(ctx context.Context, venueID string, limit int) ([]Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := f.venueErrs[venueID]; err != nil {
		return nil, err
	}
	reports := append([]Report(nil), f.byVenue[venueID]...)
	if len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (f *fakeReportSource) QueryRecent(ctx context.Context, limit, offset int, venueID string) ([]Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Report, 0, len(f.recent))
	for _, r := range f.recent {
		if venueID != "" && r.VenueID != venueID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReportSource) RecentCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	return f.counts, nil
}

type fakeNewsSource struct {
	items []NewsItem
	err   error
}

func (f *fakeNewsSource) QueryRecent(ctx context.Context, limit, offset int, venueID string) ([]NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]NewsItem, 0, len(f.items))
	for _, n := range f.items {
		if venueID != "" && n.VenueID != "" && n.VenueID != venueID {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeVoteStore struct {
	votes       map[string]map[string]string // userID -> reportID -> kind
	upsertErr   error
	upsertCalls int
}

func (f *fakeVoteStore) Upsert(ctx context.Context, reportID, userID, kind string) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.votes == nil {
		f.votes = make(map[string]map[string]string)
	}
	if f.votes[userID] == nil {
		f.votes[userID] = make(map[string]string)
	}
	f.votes[userID][reportID] = kind
	return nil
}

func (f *fakeVoteStore) QueryByUser(ctx context.Context, userID string) (map[string]string, error) {
	out := make(map[string]string, len(f.votes[userID]))
	for k, v := range f.votes[userID] {
		out[k] = v
	}
	return out, nil
}

type fakeFlagStore struct {
	flagged map[string]bool // reportID + "|" + userID
}

func (f *fakeFlagStore) Insert(ctx context.Context, reportID, userID, reason, details string) error {
	key := reportID + "|" + userID
	if f.flagged[key] {
		return ErrAlreadyFlagged
	}
	if f.flagged == nil {
		f.flagged = make(map[string]bool)
	}
	f.flagged[key] = true
	return nil
}

type fakeEventSource struct {
	events []Event
	err    error
}

func (f *fakeEventSource) QueryUpcoming(ctx context.Context, limit int) ([]Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	events := append([]Event(nil), f.events...)
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func report(id, venueID string, createdAt time.Time, helpful int) Report {
	return Report{
		ID:           id,
		VenueID:      venueID,
		UserID:       "user-1",
		Username:     "techno_tim",
		QueueLength:  "long",
		DoorPolicy:   "strict",
		Capacity:     "busy",
		HelpfulCount: helpful,
		CreatedAt:    createdAt,
	}
}

func newsItem(id, venueID string, publishedAt time.Time) NewsItem {
	return NewsItem{
		ID:          id,
		Title:       "Lineup change tonight",
		Content:     "Doors open an hour later.",
		Source:      "venue",
		VenueID:     venueID,
		PublishedAt: publishedAt,
	}
}
