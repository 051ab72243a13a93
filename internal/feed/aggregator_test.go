package feed

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestAggregator(reports *fakeReportSource, news *fakeNewsSource, votes *fakeVoteStore, flags *fakeFlagStore) *Aggregator {
	a := NewAggregator(reports, news, votes, flags, testVenues, testClassifier(), NewNotifier(), discardLogger())
	a.now = func() time.Time { return testBase }
	return a
}

func TestGetPageMergesNewsAndReportsByTime(t *testing.T) {
	reports := &fakeReportSource{recent: []Report{
		report("r1", "berghain", testBase.Add(-50*time.Minute), 0),
		report("r2", "sisyphos", testBase.Add(-10*time.Minute), 0),
	}}
	news := &fakeNewsSource{items: []NewsItem{
		newsItem("n1", "", testBase.Add(-30*time.Minute)),
	}}
	a := newTestAggregator(reports, news, &fakeVoteStore{}, &fakeFlagStore{})

	items := a.GetPage(context.Background(), "", FilterAll, SortRecent, 2, 0, nil, "")
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].ID != "report-r2" || items[1].ID != "news-n1" {
		t.Errorf("Expected [report-r2 news-n1], got [%s %s]", items[0].ID, items[1].ID)
	}
	if items[0].Report == nil || items[1].News == nil {
		t.Error("Expected payloads matching item types")
	}
}

func TestGetPagePaginationIsDisjoint(t *testing.T) {
	reports := &fakeReportSource{}
	for i := 0; i < 6; i++ {
		reports.recent = append(reports.recent,
			report(string(rune('a'+i)), "berghain", testBase.Add(-time.Duration(i)*time.Minute), 0))
	}
	a := newTestAggregator(reports, &fakeNewsSource{}, &fakeVoteStore{}, &fakeFlagStore{})

	seen := make(map[string]bool)
	for offset := 0; offset < 6; offset += 2 {
		page := a.GetPage(context.Background(), "", FilterReports, SortRecent, 2, offset, nil, "")
		if len(page) != 2 {
			t.Fatalf("Expected page of 2 at offset %d, got %d", offset, len(page))
		}
		for _, it := range page {
			if seen[it.ID] {
				t.Errorf("Item %s appeared on two pages", it.ID)
			}
			seen[it.ID] = true
		}
	}
	if len(seen) != 6 {
		t.Errorf("Expected 6 distinct items across pages, got %d", len(seen))
	}
}

func TestGetPageEqualTimestampsOrderByID(t *testing.T) {
	ts := testBase.Add(-5 * time.Minute)
	reports := &fakeReportSource{recent: []Report{
		report("b", "berghain", ts, 0),
		report("a", "sisyphos", ts, 0),
	}}
	a := newTestAggregator(reports, &fakeNewsSource{}, &fakeVoteStore{}, &fakeFlagStore{})

	items := a.GetPage(context.Background(), "", FilterReports, SortRecent, 10, 0, nil, "")
	if items[0].ID != "report-a" || items[1].ID != "report-b" {
		t.Errorf("Expected identifier tiebreak [report-a report-b], got [%s %s]", items[0].ID, items[1].ID)
	}
}

func TestGetPageFilters(t *testing.T) {
	reports := &fakeReportSource{recent: []Report{report("r1", "berghain", testBase.Add(-time.Minute), 0)}}
	news := &fakeNewsSource{items: []NewsItem{newsItem("n1", "", testBase.Add(-2*time.Minute))}}
	a := newTestAggregator(reports, news, &fakeVoteStore{}, &fakeFlagStore{})
	ctx := context.Background()

	if items := a.GetPage(ctx, "", FilterNews, SortRecent, 10, 0, nil, ""); len(items) != 1 || items[0].Type != TypeNews {
		t.Errorf("filter=news: expected only the news item, got %d items", len(items))
	}
	if items := a.GetPage(ctx, "", FilterReports, SortRecent, 10, 0, nil, ""); len(items) != 1 || items[0].Type != TypeReport {
		t.Errorf("filter=reports: expected only the report, got %d items", len(items))
	}
	if items := a.GetPage(ctx, "", FilterNearby, SortRecent, 10, 0, nil, ""); len(items) != 0 {
		t.Errorf("filter=nearby: expected empty page, got %d items", len(items))
	}
}

func TestGetPageVenueScope(t *testing.T) {
	reports := &fakeReportSource{recent: []Report{
		report("r1", "berghain", testBase.Add(-time.Minute), 0),
		report("r2", "sisyphos", testBase.Add(-2*time.Minute), 0),
	}}
	a := newTestAggregator(reports, &fakeNewsSource{}, &fakeVoteStore{}, &fakeFlagStore{})

	items := a.GetPage(context.Background(), "", FilterReports, SortRecent, 10, 0, nil, "berghain")
	if len(items) != 1 || items[0].ID != "report-r1" {
		t.Fatalf("Expected only the berghain report, got %d items", len(items))
	}
}

func TestGetPageDegradesToEmptyOnStoreError(t *testing.T) {
	reports := &fakeReportSource{err: errors.New("connection refused")}
	a := newTestAggregator(reports, &fakeNewsSource{}, &fakeVoteStore{}, &fakeFlagStore{})

	items := a.GetPage(context.Background(), "", FilterAll, SortRecent, 10, 0, nil, "")
	if items == nil {
		t.Fatal("Expected empty non-nil page on store error")
	}
	if len(items) != 0 {
		t.Errorf("Expected empty page, got %d items", len(items))
	}
}

func TestGetPageAnnotatesDerivedFields(t *testing.T) {
	reports := &fakeReportSource{
		recent: []Report{
			report("r1", "berghain", testBase.Add(-10*time.Minute), 0),
			report("r2", "sisyphos", testBase.Add(-3*time.Hour), 0),
		},
		counts: map[string]int{"berghain": 3},
	}
	a := newTestAggregator(reports, &fakeNewsSource{}, &fakeVoteStore{}, &fakeFlagStore{})

	items := a.GetPage(context.Background(), "", FilterReports, SortRecent, 10, 0, nil, "")
	fresh := items[0].Report
	if fresh.Freshness != FreshnessFresh || fresh.Confidence != ConfidenceHigh || fresh.RecentReportCount != 3 {
		t.Errorf("Expected fresh/high/3, got %s/%s/%d", fresh.Freshness, fresh.Confidence, fresh.RecentReportCount)
	}
	old := items[1].Report
	if old.Freshness != FreshnessOld || old.Confidence != ConfidenceLow {
		t.Errorf("Expected old/low, got %s/%s", old.Freshness, old.Confidence)
	}
}

func TestSortHelpfulOrdersByVoteCount(t *testing.T) {
	reports := &fakeReportSource{recent: []Report{
		report("r1", "berghain", testBase.Add(-time.Minute), 1),
		report("r2", "sisyphos", testBase.Add(-2*time.Minute), 7),
	}}
	news := &fakeNewsSource{items: []NewsItem{newsItem("n1", "", testBase)}}
	a := newTestAggregator(reports, news, &fakeVoteStore{}, &fakeFlagStore{})

	items := a.GetPage(context.Background(), "", FilterAll, SortHelpful, 10, 0, nil, "")
	if items[0].ID != "report-r2" || items[1].ID != "report-r1" || items[2].ID != "news-n1" {
		t.Errorf("Expected [report-r2 report-r1 news-n1], got [%s %s %s]", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestSortNearbyUnresolvableVenuesLast(t *testing.T) {
	reports := &fakeReportSource{recent: []Report{
		report("r1", "sisyphos", testBase.Add(-time.Minute), 0),
		report("r2", "berghain", testBase.Add(-2*time.Minute), 0),
		report("r3", "closed-club", testBase.Add(-3*time.Minute), 0),
	}}
	a := newTestAggregator(reports, &fakeNewsSource{}, &fakeVoteStore{}, &fakeFlagStore{})

	// Caller standing at Berghain.
	loc := &Location{Lat: 52.5111, Lon: 13.4430}
	items := a.GetPage(context.Background(), "", FilterReports, SortNearby, 10, 0, loc, "")
	if items[0].ID != "report-r2" || items[1].ID != "report-r1" || items[2].ID != "report-r3" {
		t.Errorf("Expected [report-r2 report-r1 report-r3], got [%s %s %s]", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestVoteRejectsInvalidKind(t *testing.T) {
	votes := &fakeVoteStore{}
	a := newTestAggregator(&fakeReportSource{}, &fakeNewsSource{}, votes, &fakeFlagStore{})

	if err := a.Vote(context.Background(), "r1", "u1", "amazing"); !errors.Is(err, ErrInvalidVoteKind) {
		t.Errorf("Expected ErrInvalidVoteKind, got %v", err)
	}
	if votes.upsertCalls != 0 {
		t.Error("Invalid kind must not hit the store")
	}
}

func TestVoteSameKindIsIdempotent(t *testing.T) {
	votes := &fakeVoteStore{votes: map[string]map[string]string{
		"u1": {"r1": "helpful"},
	}}
	a := newTestAggregator(&fakeReportSource{}, &fakeNewsSource{}, votes, &fakeFlagStore{})

	if err := a.Vote(context.Background(), "r1", "u1", "helpful"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if votes.upsertCalls != 0 {
		t.Errorf("Repeating the same vote must skip the upsert, got %d calls", votes.upsertCalls)
	}
}

func TestVoteOverwritesPriorVote(t *testing.T) {
	votes := &fakeVoteStore{votes: map[string]map[string]string{
		"u1": {"r1": "helpful"},
	}}
	a := newTestAggregator(&fakeReportSource{}, &fakeNewsSource{}, votes, &fakeFlagStore{})

	if err := a.Vote(context.Background(), "r1", "u1", "unhelpful"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if votes.upsertCalls != 1 {
		t.Fatalf("Expected 1 upsert, got %d", votes.upsertCalls)
	}
	if got := votes.votes["u1"]["r1"]; got != "unhelpful" {
		t.Errorf("Expected stored vote unhelpful, got %s", got)
	}
}

func TestVoteOptimisticOverlayAdjustsCounters(t *testing.T) {
	reports := &fakeReportSource{recent: []Report{
		report("r1", "berghain", testBase.Add(-time.Minute), 5),
	}}
	reports.recent[0].UnhelpfulCount = 2
	a := newTestAggregator(reports, &fakeNewsSource{}, &fakeVoteStore{}, &fakeFlagStore{})

	// An in-flight vote switching unhelpful -> helpful.
	a.setPending("u1", "r1", pendingVote{Kind: "helpful", Prev: "unhelpful", Optimistic: true})

	items := a.GetPage(context.Background(), "u1", FilterReports, SortRecent, 10, 0, nil, "")
	r := items[0].Report
	if r.HelpfulCount != 6 || r.UnhelpfulCount != 1 {
		t.Errorf("Expected counters 6/1 under overlay, got %d/%d", r.HelpfulCount, r.UnhelpfulCount)
	}

	// Other users see the stored counters.
	items = a.GetPage(context.Background(), "u2", FilterReports, SortRecent, 10, 0, nil, "")
	r = items[0].Report
	if r.HelpfulCount != 5 || r.UnhelpfulCount != 2 {
		t.Errorf("Expected stored counters 5/2 for another user, got %d/%d", r.HelpfulCount, r.UnhelpfulCount)
	}
}

func TestVoteConfirmedOverlayLeavesCountersAlone(t *testing.T) {
	reports := &fakeReportSource{recent: []Report{
		report("r1", "berghain", testBase.Add(-time.Minute), 5),
	}}
	votes := &fakeVoteStore{}
	a := newTestAggregator(reports, &fakeNewsSource{}, votes, &fakeFlagStore{})

	if err := a.Vote(context.Background(), "r1", "u1", "helpful"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	// After the durable write the store counts are authoritative; no double count.
	items := a.GetPage(context.Background(), "u1", FilterReports, SortRecent, 10, 0, nil, "")
	if got := items[0].Report.HelpfulCount; got != 5 {
		t.Errorf("Expected stored count 5 after confirmation, got %d", got)
	}
}

func TestVoteFailureDropsOverlayAndNotifies(t *testing.T) {
	votes := &fakeVoteStore{upsertErr: errors.New("deadlock")}
	a := newTestAggregator(&fakeReportSource{}, &fakeNewsSource{}, votes, &fakeFlagStore{})

	notified := false
	unsubscribe := a.Subscribe(func() { notified = true })
	defer unsubscribe()

	if err := a.Vote(context.Background(), "r1", "u1", "helpful"); err == nil {
		t.Fatal("Expected error from failing upsert")
	}
	if !notified {
		t.Error("Expected a reload notification after the failed write")
	}
	if _, ok := a.pending["u1"]["r1"]; ok {
		t.Error("Expected the overlay entry to be dropped")
	}
}

func TestFlagDuplicateConflicts(t *testing.T) {
	flags := &fakeFlagStore{flagged: map[string]bool{}}
	a := newTestAggregator(&fakeReportSource{}, &fakeNewsSource{}, &fakeVoteStore{}, flags)
	ctx := context.Background()

	if err := a.Flag(ctx, "r1", "u1", "spam", ""); err != nil {
		t.Fatalf("First flag failed: %v", err)
	}
	if err := a.Flag(ctx, "r1", "u1", "spam", ""); !errors.Is(err, ErrAlreadyFlagged) {
		t.Errorf("Expected ErrAlreadyFlagged, got %v", err)
	}
	if err := a.Flag(ctx, "r1", "u2", "inaccurate", "queue was empty"); err != nil {
		t.Errorf("Different user flagging the same report failed: %v", err)
	}
	if err := a.Flag(ctx, "r1", "u3", "rude", ""); !errors.Is(err, ErrInvalidFlagReason) {
		t.Errorf("Expected ErrInvalidFlagReason, got %v", err)
	}
}
