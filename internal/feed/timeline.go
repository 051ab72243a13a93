package feed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// TimelineFilter narrows the timeline. An empty Types list means the default
// view: reports and news, never events. Reports are included regardless of
// the Types list; only news and event inclusion is driven by it. VenueIDs
// filters reports and events but always retains news, which is treated as
// venue-agnostic.
type TimelineFilter struct {
	Types    []string
	VenueIDs []string
}

func (f *TimelineFilter) hasType(t string) bool {
	if f == nil {
		return false
	}
	for _, v := range f.Types {
		if v == t {
			return true
		}
	}
	return false
}

func (f *TimelineFilter) venueSet() map[string]bool {
	if f == nil || len(f.VenueIDs) == 0 {
		return nil
	}
	set := make(map[string]bool, len(f.VenueIDs))
	for _, id := range f.VenueIDs {
		set[id] = true
	}
	return set
}

// TimelineAggregator is the second merge path: reports, news, and static
// event data in one time-ordered stream, with a distance-ordered variant.
// Unlike the feed path it fails loudly: partial venue coverage would silently
// under-report activity, so any fan-out error rejects the whole page.
type TimelineAggregator struct {
	reports       ReportSource
	news          NewsSource
	events        EventSource
	venues        []Venue
	venueByID     map[string]Venue
	perVenueLimit int
	batchSize     int
	logger        *slog.Logger
}

func NewTimelineAggregator(reports ReportSource, news NewsSource, events EventSource, venues []Venue, perVenueLimit, batchSize int, logger *slog.Logger) *TimelineAggregator {
	byID := make(map[string]Venue, len(venues))
	for _, v := range venues {
		byID[v.ID] = v
	}
	if perVenueLimit <= 0 {
		perVenueLimit = 10
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &TimelineAggregator{
		reports:       reports,
		news:          news,
		events:        events,
		venues:        venues,
		venueByID:     byID,
		perVenueLimit: perVenueLimit,
		batchSize:     batchSize,
		logger:        logger,
	}
}

// GetTimeline returns one page of the merged timeline. The report store's
// query surface is per-venue only, so reports are fetched with one query per
// known venue, all launched together and joined before the merge. Results
// are merged only after every fetch resolves, keeping ordering deterministic.
func (t *TimelineAggregator) GetTimeline(ctx context.Context, limit, offset int, filter *TimelineFilter) ([]TimelineItem, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	perVenue := make([][]Report, len(t.venues))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range t.venues {
		i, v := i, v
		g.Go(func() error {
			reports, err := t.reports.QueryByVenue(gctx, v.ID, t.perVenueLimit)
			if err != nil {
				return fmt.Errorf("venue %s: %w", v.ID, err)
			}
			perVenue[i] = reports
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.logger.Error("timeline fan-out failed", "component", "timeline", "error", err)
		return nil, fmt.Errorf("report fan-out: %w", err)
	}

	venueSet := filter.venueSet()
	items := make([]TimelineItem, 0, t.batchSize)

	for i, reports := range perVenue {
		venue := t.venues[i]
		for j := range reports {
			if venueSet != nil && !venueSet[venue.ID] {
				continue
			}
			r := reports[j]
			items = append(items, TimelineItem{
				ID:           "report-" + r.ID,
				Type:         TimelineReport,
				Timestamp:    r.CreatedAt,
				VenueID:      venue.ID,
				VenueName:    venue.Name,
				VenueLogoURL: venue.LogoURL,
				Report:       &r,
			})
		}
	}

	// The default view is reports + news. Events appear only when asked for.
	includeNews := filter == nil || len(filter.Types) == 0 || filter.hasType(TimelineNews)
	if includeNews {
		news, err := t.news.QueryRecent(ctx, t.batchSize, 0, "")
		if err != nil {
			return nil, fmt.Errorf("fetch news: %w", err)
		}
		for i := range news {
			n := news[i]
			items = append(items, TimelineItem{
				ID:        "news-" + n.ID,
				Type:      TimelineNews,
				Timestamp: n.PublishedAt,
				VenueID:   n.VenueID,
				VenueName: t.newsVenueName(n),
				News:      &n,
			})
		}
	}

	if filter.hasType(TimelineEvent) {
		events, err := t.events.QueryUpcoming(ctx, t.batchSize)
		if err != nil {
			return nil, fmt.Errorf("fetch events: %w", err)
		}
		for i := range events {
			ev := events[i]
			if venueSet != nil && !venueSet[ev.VenueID] {
				continue
			}
			venue := t.venueByID[ev.VenueID]
			items = append(items, TimelineItem{
				ID:           "event-" + ev.ID,
				Type:         TimelineEvent,
				Timestamp:    ev.StartsAt,
				VenueID:      ev.VenueID,
				VenueName:    venue.Name,
				VenueLogoURL: venue.LogoURL,
				Event:        &ev,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].ID < items[j].ID
	})

	return page(items, limit, offset), nil
}

// GetTimelineByDistance reorders the time-ordered path by proximity: fetch a
// larger batch, compute the great-circle distance to each item's venue, and
// paginate the ascending result. Items whose venue cannot be resolved get an
// infinite distance and sort last.
func (t *TimelineAggregator) GetTimelineByDistance(ctx context.Context, loc Location, limit, offset int) ([]TimelineItem, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, err := t.GetTimeline(ctx, t.batchSize, 0, nil)
	if err != nil {
		return nil, err
	}

	dist := make([]float64, len(items))
	for i, it := range items {
		v, ok := t.venueByID[it.VenueID]
		if !ok {
			dist[i] = math.Inf(1)
			continue
		}
		dist[i] = Distance(loc, Location{Lat: v.Lat, Lon: v.Lon})
	}

	sort.Stable(timelineByDistance{items: items, dist: dist})
	return page(items, limit, offset), nil
}

func (t *TimelineAggregator) newsVenueName(n NewsItem) string {
	if n.Source == "venue" {
		return "Venue Update"
	}
	return "Berlin Nightlife"
}

func page(items []TimelineItem, limit, offset int) []TimelineItem {
	if offset >= len(items) {
		return []TimelineItem{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type timelineByDistance struct {
	items []TimelineItem
	dist  []float64
}

func (b timelineByDistance) Len() int           { return len(b.items) }
func (b timelineByDistance) Less(i, j int) bool { return b.dist[i] < b.dist[j] }
func (b timelineByDistance) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.dist[i], b.dist[j] = b.dist[j], b.dist[i]
}
