package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// Feed filters.
const (
	FilterAll     = "all"
	FilterNews    = "news"
	FilterReports = "reports"
	FilterNearby  = "nearby"
)

// Feed sorts.
const (
	SortRecent  = "recent"
	SortHelpful = "helpful"
	SortNearby  = "nearby"
)

const defaultPageSize = 20

var (
	ErrInvalidVoteKind   = errors.New("invalid vote kind")
	ErrInvalidFlagReason = errors.New("invalid flag reason")
)

var voteKinds = map[string]bool{"helpful": true, "unhelpful": true}

var flagReasons = map[string]bool{
	"spam": true, "inappropriate": true, "inaccurate": true, "other": true,
}

// pendingVote is one user's optimistic vote overlay entry. While Optimistic
// is set, the displayed counters are adjusted locally (prev kind down, new
// kind up). Once the durable write confirms, the flag is cleared and the
// store counts are authoritative again.
type pendingVote struct {
	Kind       string
	Prev       string // "" if the user had no prior vote
	Optimistic bool
}

// Aggregator merges news and reports into one filterable, sortable,
// paginated stream and applies optimistic vote state on top.
type Aggregator struct {
	reports  ReportSource
	news     NewsSource
	votes    VoteStore
	flags    FlagStore
	venues   map[string]Venue
	classify Classifier
	notifier *Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]map[string]pendingVote // userID -> reportID -> state
}

func NewAggregator(reports ReportSource, news NewsSource, votes VoteStore, flags FlagStore, venues []Venue, classify Classifier, notifier *Notifier, logger *slog.Logger) *Aggregator {
	byID := make(map[string]Venue, len(venues))
	for _, v := range venues {
		byID[v.ID] = v
	}
	return &Aggregator{
		reports:  reports,
		news:     news,
		votes:    votes,
		flags:    flags,
		venues:   byID,
		classify: classify,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		pending:  make(map[string]map[string]pendingVote),
	}
}

// Subscribe registers a callback fired whenever the backing data changes.
// The intended reaction is a full page reload.
func (a *Aggregator) Subscribe(fn func()) (unsubscribe func()) {
	return a.notifier.Subscribe(fn)
}

// GetPage returns one page of the unified feed. It never fails the caller:
// store errors are logged and reported, and an empty page is returned. A
// partially broken feed beats a broken page.
func (a *Aggregator) GetPage(ctx context.Context, userID, filter, sort string, limit, offset int, loc *Location, venueID string) []Item {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items := make([]Item, 0, 2*limit)

	if filter == FilterAll || filter == FilterNews {
		news, err := a.news.QueryRecent(ctx, limit, offset, venueID)
		if err != nil {
			a.degrade("fetch news", err)
			return []Item{}
		}
		for i := range news {
			n := news[i]
			items = append(items, Item{
				ID:        "news-" + n.ID,
				Type:      TypeNews,
				CreatedAt: n.PublishedAt,
				News:      &n,
			})
		}
	}

	if filter == FilterAll || filter == FilterReports {
		reports, err := a.reports.QueryRecent(ctx, limit, offset, venueID)
		if err != nil {
			a.degrade("fetch reports", err)
			return []Item{}
		}
		a.annotateReports(ctx, reports)
		a.applyOverlay(userID, reports)
		for i := range reports {
			r := reports[i]
			items = append(items, Item{
				ID:        "report-" + r.ID,
				Type:      TypeReport,
				CreatedAt: r.CreatedAt,
				Report:    &r,
			})
		}
	}

	sortRecent(items)

	switch sort {
	case SortHelpful:
		sortHelpful(items)
	case SortNearby:
		if loc != nil {
			a.sortNearby(items, *loc)
		}
	}

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Vote records a helpfulness vote with an optimistic local update: the
// overlay adjusts the displayed counters immediately, then the durable
// upsert runs. On success the optimistic marker is cleared; on failure the
// overlay entry is dropped and a reload notification resynchronizes every
// consumer with ground truth. No manual counter rollback, since concurrent
// voters may have moved the true count in the meantime.
func (a *Aggregator) Vote(ctx context.Context, reportID, userID, kind string) error {
	if !voteKinds[kind] {
		return ErrInvalidVoteKind
	}

	prev, err := a.priorVote(ctx, reportID, userID)
	if err != nil {
		return fmt.Errorf("load prior vote: %w", err)
	}
	if prev == kind {
		return nil
	}

	a.setPending(userID, reportID, pendingVote{Kind: kind, Prev: prev, Optimistic: true})

	if err := a.votes.Upsert(ctx, reportID, userID, kind); err != nil {
		a.clearPending(userID, reportID)
		a.notifier.Notify()
		return fmt.Errorf("persist vote: %w", err)
	}

	// Reconcile: the store counts now include this vote.
	a.setPending(userID, reportID, pendingVote{Kind: kind, Prev: prev, Optimistic: false})
	return nil
}

// Flag files a moderation flag. A repeat flag by the same user surfaces as
// ErrAlreadyFlagged; anything else is a generic failure.
func (a *Aggregator) Flag(ctx context.Context, reportID, userID, reason, details string) error {
	if !flagReasons[reason] {
		return ErrInvalidFlagReason
	}
	if err := a.flags.Insert(ctx, reportID, userID, reason, details); err != nil {
		if errors.Is(err, ErrAlreadyFlagged) {
			return ErrAlreadyFlagged
		}
		return fmt.Errorf("flag report: %w", err)
	}
	return nil
}

func (a *Aggregator) priorVote(ctx context.Context, reportID, userID string) (string, error) {
	a.mu.Lock()
	if pv, ok := a.pending[userID][reportID]; ok {
		a.mu.Unlock()
		return pv.Kind, nil
	}
	a.mu.Unlock()

	votes, err := a.votes.QueryByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return votes[reportID], nil
}

func (a *Aggregator) setPending(userID, reportID string, pv pendingVote) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending[userID] == nil {
		a.pending[userID] = make(map[string]pendingVote)
	}
	a.pending[userID][reportID] = pv
}

func (a *Aggregator) clearPending(userID, reportID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.pending[userID], reportID)
}

// applyOverlay folds a user's optimistic votes into the displayed counters.
// Confirmed entries are skipped: their effect is already in the store counts.
func (a *Aggregator) applyOverlay(userID string, reports []Report) {
	if userID == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	overlay := a.pending[userID]
	if len(overlay) == 0 {
		return
	}
	for i := range reports {
		pv, ok := overlay[reports[i].ID]
		if !ok || !pv.Optimistic {
			continue
		}
		switch pv.Prev {
		case "helpful":
			reports[i].HelpfulCount--
		case "unhelpful":
			reports[i].UnhelpfulCount--
		}
		switch pv.Kind {
		case "helpful":
			reports[i].HelpfulCount++
		case "unhelpful":
			reports[i].UnhelpfulCount++
		}
	}
}

func (a *Aggregator) annotateReports(ctx context.Context, reports []Report) {
	now := a.now()
	counts, err := a.reports.RecentCounts(ctx, now.Add(-a.classify.ConfidenceWindow))
	if err != nil {
		// Degrade to low confidence rather than dropping the page.
		a.degrade("recent counts", err)
		counts = nil
	}
	for i := range reports {
		a.classify.Annotate(&reports[i], counts, now)
	}
}

func (a *Aggregator) degrade(op string, err error) {
	a.logger.Error("feed degraded", "component", "feed", "op", op, "error", err)
	sentry.CaptureException(fmt.Errorf("feed %s: %w", op, err))
}

// sortRecent orders by timestamp descending; ties break by identifier so
// consecutive pages never shuffle equal-timestamp items.
func sortRecent(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func sortHelpful(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return helpfulCount(items[i]) > helpfulCount(items[j])
	})
}

func helpfulCount(it Item) int {
	if it.Report == nil {
		return 0
	}
	return it.Report.HelpfulCount
}

func (a *Aggregator) sortNearby(items []Item, loc Location) {
	dist := make([]float64, len(items))
	for i, it := range items {
		dist[i] = a.itemDistance(it, loc)
	}
	sort.Stable(byDistance{items: items, dist: dist})
}

// itemDistance resolves the item's venue; items with no resolvable venue get
// a maximal distance so they sort after everything resolvable.
func (a *Aggregator) itemDistance(it Item, loc Location) float64 {
	var venueID string
	switch {
	case it.Report != nil:
		venueID = it.Report.VenueID
	case it.News != nil:
		venueID = it.News.VenueID
	}
	v, ok := a.venues[venueID]
	if !ok {
		return math.Inf(1)
	}
	return Distance(loc, Location{Lat: v.Lat, Lon: v.Lon})
}

type byDistance struct {
	items []Item
	dist  []float64
}

func (b byDistance) Len() int           { return len(b.items) }
func (b byDistance) Less(i, j int) bool { return b.dist[i] < b.dist[j] }
func (b byDistance) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.dist[i], b.dist[j] = b.dist[j], b.dist[i]
}
