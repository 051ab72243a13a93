package feed

import "time"

// Freshness bands.
const (
	FreshnessFresh  = "fresh"
	FreshnessRecent = "recent"
	FreshnessOld    = "old"
)

// Confidence bands.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Classifier computes the derived report fields. The boundaries are policy
// knobs fed from config, not constants, and everything is recomputed per
// fetch because the classifications move as "now" advances.
type Classifier struct {
	FreshCutoff      time.Duration
	RecentCutoff     time.Duration
	ConfidenceWindow time.Duration
	HighMin          int
	MedMin           int
}

// Freshness classifies a report's age at the given instant.
func (c Classifier) Freshness(createdAt, now time.Time) string {
	age := now.Sub(createdAt)
	switch {
	case age <= c.FreshCutoff:
		return FreshnessFresh
	case age <= c.RecentCutoff:
		return FreshnessRecent
	default:
		return FreshnessOld
	}
}

// Confidence classifies corroboration from the number of same-venue reports
// inside the trailing window.
func (c Classifier) Confidence(recentCount int) string {
	switch {
	case recentCount >= c.HighMin:
		return ConfidenceHigh
	case recentCount >= c.MedMin:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Annotate fills the derived fields on a report from the per-venue recent
// counts snapshot.
func (c Classifier) Annotate(r *Report, recentCounts map[string]int, now time.Time) {
	r.RecentReportCount = recentCounts[r.VenueID]
	r.Confidence = c.Confidence(r.RecentReportCount)
	r.Freshness = c.Freshness(r.CreatedAt, now)
}
