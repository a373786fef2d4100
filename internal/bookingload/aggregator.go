// Package bookingload counts upcoming and past bookings per scheduling
// account over the current and next calendar month. Counts are rebuilt
// fresh on every request; booking state changes too fast to cache safely.
package bookingload

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/metrics"
)

// Statuses is the set of booking states that count against an agent's
// quota. Cancelled bookings are deliberately absent.
var Statuses = []string{"upcoming", "recurring", "past"}

// Window is a UTC time range, inclusive on both ends.
type Window struct {
	After  time.Time
	Before time.Time
}

// MonthWindow returns the fixed aggregation window: the first instant of
// the current calendar month through the last instant of the next one,
// in UTC.
func MonthWindow(now time.Time) Window {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	// Start of the month after next, minus one nanosecond.
	last := time.Date(now.Year(), now.Month()+2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	return Window{After: first, Before: last}
}

// Booking is one scheduled meeting as reported by the booking port.
// Zero values mark missing fields.
type Booking struct {
	AccountID int64
	Start     time.Time
}

// Page is one page of the booking list. HasNextPage mirrors the
// platform's cursor-presence flag; a page can be non-empty with no
// further cursor, and an empty page does not imply the end.
type Page struct {
	Items       []Booking
	HasNextPage bool
}

// Pager yields booking pages in order. Pagination is inherently
// sequential: each page's request depends on the previous page's cursor.
type Pager interface {
	Next(ctx context.Context) (Page, error)
}

// PageSource opens a restartable page sequence for a window.
type PageSource interface {
	BookingPages(window Window, statuses []string) Pager
}

// Counts maps scheduling account ids to booking counts for the current
// and next calendar month.
type Counts struct {
	Current map[int64]int
	Next    map[int64]int
}

// EmptyCounts returns counts with no bookings recorded. With empty
// counts no agent appears over quota, which is the safe degradation
// direction.
func EmptyCounts() Counts {
	return Counts{Current: map[int64]int{}, Next: map[int64]int{}}
}

// Aggregator loads per-account booking counts from a page source.
type Aggregator struct {
	source PageSource
	clock  clockwork.Clock
	logger *zap.SugaredLogger
}

func NewAggregator(source PageSource, clock clockwork.Clock, logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{source: source, clock: clock, logger: logger}
}

// Load walks every page of the booking list for the two-month window and
// buckets bookings by month. Any page error aborts the whole aggregation
// and returns empty counts: partial counts would make some agents appear
// falsely over-quota, which is worse than none. Load never returns an
// error to the caller.
func (a *Aggregator) Load(ctx context.Context) Counts {
	now := a.clock.Now().UTC()
	window := MonthWindow(now)
	counts := EmptyCounts()

	curYear, curMonth := now.Year(), now.Month()
	nextStart := time.Date(curYear, curMonth+1, 1, 0, 0, 0, 0, time.UTC)
	nextYear, nextMonth := nextStart.Year(), nextStart.Month()

	pager := a.source.BookingPages(window, Statuses)
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			a.logger.Warnw("booking load aborted, serving empty counts", "err", err)
			metrics.BookingLoadFailures.Inc()
			return EmptyCounts()
		}
		metrics.BookingPagesFetched.Inc()

		for _, b := range page.Items {
			if b.AccountID == 0 || b.Start.IsZero() {
				continue
			}
			start := b.Start.UTC()
			switch {
			case start.Year() == curYear && start.Month() == curMonth:
				counts.Current[b.AccountID]++
			case start.Year() == nextYear && start.Month() == nextMonth:
				counts.Next[b.AccountID]++
			default:
				// Outside the two-month window; must not leak into a bucket.
			}
		}

		if !page.HasNextPage {
			return counts
		}
	}
}
