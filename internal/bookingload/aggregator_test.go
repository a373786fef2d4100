package bookingload_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/bookingload"
)

type fakeSource struct {
	pages    []bookingload.Page
	failAt   int // 1-based page index to fail on, 0 = never
	window   bookingload.Window
	statuses []string
}

func (f *fakeSource) BookingPages(window bookingload.Window, statuses []string) bookingload.Pager {
	f.window = window
	f.statuses = statuses
	return &fakePager{src: f}
}

type fakePager struct {
	src *fakeSource
	i   int
}

func (p *fakePager) Next(ctx context.Context) (bookingload.Page, error) {
	p.i++
	if p.src.failAt != 0 && p.i == p.src.failAt {
		return bookingload.Page{}, errors.New("page fetch failed")
	}
	return p.src.pages[p.i-1], nil
}

var now = time.Date(2026, time.August, 28, 10, 30, 0, 0, time.UTC)

func newAggregator(src *fakeSource) *bookingload.Aggregator {
	return bookingload.NewAggregator(src, clockwork.NewFakeClockAt(now), zap.NewNop().Sugar())
}

func TestMonthWindow(t *testing.T) {
	w := bookingload.MonthWindow(now)
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), w.After)
	assert.Equal(t, time.Date(2026, time.September, 30, 23, 59, 59, 999999999, time.UTC), w.Before)
}

func TestMonthWindowYearBoundary(t *testing.T) {
	dec := time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)
	w := bookingload.MonthWindow(dec)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), w.After)
	assert.Equal(t, time.Date(2027, time.January, 31, 23, 59, 59, 999999999, time.UTC), w.Before)
}

func TestLoadBucketsByMonth(t *testing.T) {
	src := &fakeSource{pages: []bookingload.Page{{
		Items: []bookingload.Booking{
			{AccountID: 1, Start: time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC)},
			{AccountID: 1, Start: time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)},
			{AccountID: 1, Start: time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)},
			{AccountID: 2, Start: time.Date(2026, time.September, 9, 9, 0, 0, 0, time.UTC)},
			// Outside the two-month window: must not leak into a bucket.
			{AccountID: 2, Start: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)},
			{AccountID: 2, Start: time.Date(2026, time.July, 31, 23, 0, 0, 0, time.UTC)},
		},
		HasNextPage: false,
	}}}

	counts := newAggregator(src).Load(context.Background())
	assert.Equal(t, map[int64]int{1: 2}, counts.Current)
	assert.Equal(t, map[int64]int{1: 1, 2: 1}, counts.Next)
}

func TestLoadSkipsBookingsMissingFields(t *testing.T) {
	src := &fakeSource{pages: []bookingload.Page{{
		Items: []bookingload.Booking{
			{AccountID: 0, Start: time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC)},
			{AccountID: 5},
			{AccountID: 5, Start: time.Date(2026, time.August, 4, 9, 0, 0, 0, time.UTC)},
		},
	}}}

	counts := newAggregator(src).Load(context.Background())
	assert.Equal(t, map[int64]int{5: 1}, counts.Current)
}

func TestLoadTerminatesOnCursorAbsenceNotEmptyPage(t *testing.T) {
	// Page 1 is non-empty with a next cursor, page 2 is empty but still
	// has one, page 3 carries data and ends the sequence.
	src := &fakeSource{pages: []bookingload.Page{
		{Items: []bookingload.Booking{{AccountID: 1, Start: now}}, HasNextPage: true},
		{Items: nil, HasNextPage: true},
		{Items: []bookingload.Booking{{AccountID: 1, Start: now}}, HasNextPage: false},
	}}

	counts := newAggregator(src).Load(context.Background())
	assert.Equal(t, 2, counts.Current[1])
}

func TestLoadCollapsesToEmptyOnPageError(t *testing.T) {
	src := &fakeSource{
		pages: []bookingload.Page{
			{Items: []bookingload.Booking{{AccountID: 1, Start: now}}, HasNextPage: true},
			{},
		},
		failAt: 2,
	}

	counts := newAggregator(src).Load(context.Background())
	assert.Empty(t, counts.Current, "partial counts are worse than none")
	assert.Empty(t, counts.Next)
}

func TestLoadRequestsConfiguredWindowAndStatuses(t *testing.T) {
	src := &fakeSource{pages: []bookingload.Page{{}}}
	newAggregator(src).Load(context.Background())

	require.Equal(t, bookingload.MonthWindow(now), src.window)
	assert.Equal(t, []string{"upcoming", "recurring", "past"}, src.statuses)
}
