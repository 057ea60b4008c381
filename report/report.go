// Package report computes point-in-time rollups over snapshots of the
// analytics stores. Reports read the slices they are given and never retain
// or mutate them.
package report

import (
	"cmp"
	"slices"
	"time"

	"portfolio/api/config"
)

// Options carries the windows, thresholds and list caps of the reports.
type Options struct {
	VisitRecentWindow   time.Duration
	ContactRecentWindow time.Duration
	BounceThreshold     time.Duration
	FastConversion      time.Duration
	TopN                int
	RecentVisitLimit    int
	RecentContactLimit  int
	// Location is the zone used to bucket contacts by hour of day.
	Location *time.Location
}

// DefaultOptions mirrors the defaults of config.Default().
func DefaultOptions() Options {
	return Options{
		VisitRecentWindow:   24 * time.Hour,
		ContactRecentWindow: 7 * 24 * time.Hour,
		BounceThreshold:     10 * time.Second,
		FastConversion:      300 * time.Second,
		TopN:                10,
		RecentVisitLimit:    50,
		RecentContactLimit:  20,
		Location:            time.Local,
	}
}

type keyCount struct {
	key   string
	count int
}

// tally counts keys while remembering the order each key was first seen.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// firstSeen returns the counts in first-seen order.
func (t *tally) firstSeen() []keyCount {
	out := make([]keyCount, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, keyCount{key: k, count: t.counts[k]})
	}
	return out
}

// byCount returns the counts sorted descending; ties keep first-seen order.
func (t *tally) byCount() []keyCount {
	out := t.firstSeen()
	slices.SortStableFunc(out, func(a, b keyCount) int {
		return cmp.Compare(b.count, a.count)
	})
	return out
}

// project converts counts into report rows, keeping at most limit rows
// (limit <= 0 keeps all). The result is never nil.
func project[T any](counts []keyCount, limit int, row func(key string, count int) T) []T {
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	out := make([]T, 0, len(counts))
	for _, kc := range counts {
		out = append(out, row(kc.key, kc.count))
	}
	return out
}

// recent keeps events strictly newer than now-window, newest first, capped at limit.
func recent[T any](events []T, ts func(T) int64, now time.Time, window time.Duration, limit int) []T {
	cutoff := now.Add(-window).UnixMilli()
	out := make([]T, 0)
	for _, e := range events {
		if ts(e) > cutoff {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(ts(b), ts(a))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// OptionsFrom builds report options from the analytics configuration.
func OptionsFrom(cfg config.AnalyticsConfig, loc *time.Location) Options {
	return Options{
		VisitRecentWindow:   cfg.VisitRecentWindow,
		ContactRecentWindow: cfg.ContactRecentWindow,
		BounceThreshold:     cfg.BounceThreshold,
		FastConversion:      cfg.FastConversion,
		TopN:                cfg.TopN,
		RecentVisitLimit:    cfg.RecentVisitLimit,
		RecentContactLimit:  cfg.RecentContactLimit,
		Location:            loc,
	}
}
