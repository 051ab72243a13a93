package feed

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestTimeline(reports *fakeReportSource, news *fakeNewsSource, events *fakeEventSource) *TimelineAggregator {
	return NewTimelineAggregator(reports, news, events, testVenues, 10, 100, discardLogger())
}

func TestTimelineDefaultViewExcludesEvents(t *testing.T) {
	reports := &fakeReportSource{byVenue: map[string][]Report{
		"berghain": {report("r1", "berghain", testBase.Add(-10*time.Minute), 0)},
	}}
	news := &fakeNewsSource{items: []NewsItem{newsItem("n1", "", testBase.Add(-5*time.Minute))}}
	events := &fakeEventSource{events: []Event{
		{ID: "e1", VenueID: "sisyphos", Title: "Open Air", StartsAt: testBase.Add(24 * time.Hour)},
	}}
	tl := newTestTimeline(reports, news, events)

	items, err := tl.GetTimeline(context.Background(), 10, 0, nil)
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	for _, it := range items {
		if it.Type == TimelineEvent {
			t.Error("Default view must not contain events")
		}
	}
	if items[0].ID != "news-n1" || items[1].ID != "report-r1" {
		t.Errorf("Expected [news-n1 report-r1], got [%s %s]", items[0].ID, items[1].ID)
	}
}

func TestTimelineEventsOnlyWhenRequested(t *testing.T) {
	events := &fakeEventSource{events: []Event{
		{ID: "e1", VenueID: "sisyphos", Title: "Open Air", StartsAt: testBase.Add(24 * time.Hour)},
	}}
	news := &fakeNewsSource{items: []NewsItem{newsItem("n1", "", testBase)}}
	tl := newTestTimeline(&fakeReportSource{}, news, events)

	items, err := tl.GetTimeline(context.Background(), 10, 0, &TimelineFilter{Types: []string{"event"}})
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(items) != 1 || items[0].Type != TimelineEvent {
		t.Fatalf("Expected only the event, got %d items", len(items))
	}
	if items[0].VenueName != "Sisyphos" {
		t.Errorf("Expected event joined against the venue directory, got %q", items[0].VenueName)
	}
}

func TestTimelineFanOutErrorRejectsPage(t *testing.T) {
	reports := &fakeReportSource{
		byVenue: map[string][]Report{
			"berghain": {report("r1", "berghain", testBase, 0)},
		},
		venueErrs: map[string]error{"sisyphos": errors.New("timeout")},
	}
	tl := newTestTimeline(reports, &fakeNewsSource{}, &fakeEventSource{})

	items, err := tl.GetTimeline(context.Background(), 10, 0, nil)
	if err == nil {
		t.Fatal("Expected error when one venue fetch fails")
	}
	if items != nil {
		t.Errorf("Expected no partial page, got %d items", len(items))
	}
}

func TestTimelineVenueFilterKeepsNews(t *testing.T) {
	reports := &fakeReportSource{byVenue: map[string][]Report{
		"berghain": {report("r1", "berghain", testBase.Add(-10*time.Minute), 0)},
		"sisyphos": {report("r2", "sisyphos", testBase.Add(-5*time.Minute), 0)},
	}}
	news := &fakeNewsSource{items: []NewsItem{newsItem("n1", "", testBase.Add(-1*time.Minute))}}
	tl := newTestTimeline(reports, news, &fakeEventSource{})

	items, err := tl.GetTimeline(context.Background(), 10, 0, &TimelineFilter{VenueIDs: []string{"berghain"}})
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected berghain report plus news, got %d items", len(items))
	}
	if items[0].ID != "news-n1" || items[1].ID != "report-r1" {
		t.Errorf("Expected [news-n1 report-r1], got [%s %s]", items[0].ID, items[1].ID)
	}
}

func TestTimelineVenueNames(t *testing.T) {
	reports := &fakeReportSource{byVenue: map[string][]Report{
		"berghain": {report("r1", "berghain", testBase.Add(-10*time.Minute), 0)},
	}}
	venueNews := newsItem("n1", "", testBase.Add(-1*time.Minute))
	scraperNews := newsItem("n2", "", testBase.Add(-2*time.Minute))
	scraperNews.Source = "scraper"
	news := &fakeNewsSource{items: []NewsItem{venueNews, scraperNews}}
	tl := newTestTimeline(reports, news, &fakeEventSource{})

	items, err := tl.GetTimeline(context.Background(), 10, 0, nil)
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	names := map[string]string{}
	for _, it := range items {
		names[it.ID] = it.VenueName
	}
	if names["report-r1"] != "Berghain" {
		t.Errorf("Expected report venue name Berghain, got %q", names["report-r1"])
	}
	if names["news-n1"] != "Venue Update" {
		t.Errorf("Expected venue-sourced news labeled Venue Update, got %q", names["news-n1"])
	}
	if names["news-n2"] != "Berlin Nightlife" {
		t.Errorf("Expected scraper news labeled Berlin Nightlife, got %q", names["news-n2"])
	}
}

func TestTimelinePagination(t *testing.T) {
	reports := &fakeReportSource{byVenue: map[string][]Report{}}
	for i := 0; i < 5; i++ {
		r := report(string(rune('a'+i)), "berghain", testBase.Add(-time.Duration(i)*time.Minute), 0)
		reports.byVenue["berghain"] = append(reports.byVenue["berghain"], r)
	}
	tl := newTestTimeline(reports, &fakeNewsSource{}, &fakeEventSource{})
	ctx := context.Background()

	first, err := tl.GetTimeline(ctx, 2, 0, nil)
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	second, err := tl.GetTimeline(ctx, 2, 2, nil)
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected two pages of 2, got %d and %d", len(first), len(second))
	}
	if first[1].ID == second[0].ID {
		t.Error("Pages must not overlap")
	}

	empty, err := tl.GetTimeline(ctx, 2, 50, nil)
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty page past the end, got %d items", len(empty))
	}
}

func TestTimelineByDistanceOrdersByProximity(t *testing.T) {
	reports := &fakeReportSource{byVenue: map[string][]Report{
		"berghain": {report("r1", "berghain", testBase.Add(-10*time.Minute), 0)},
		"sisyphos": {report("r2", "sisyphos", testBase.Add(-1*time.Minute), 0)},
	}}
	news := &fakeNewsSource{items: []NewsItem{newsItem("n1", "", testBase)}}
	tl := newTestTimeline(reports, news, &fakeEventSource{})

	// Standing at Berghain: its report first despite being older; the
	// venue-agnostic news item has no resolvable location and sorts last.
	items, err := tl.GetTimelineByDistance(context.Background(), Location{Lat: 52.5111, Lon: 13.4430}, 10, 0)
	if err != nil {
		t.Fatalf("GetTimelineByDistance failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].ID != "report-r1" || items[1].ID != "report-r2" || items[2].ID != "news-n1" {
		t.Errorf("Expected [report-r1 report-r2 news-n1], got [%s %s %s]", items[0].ID, items[1].ID, items[2].ID)
	}
}
