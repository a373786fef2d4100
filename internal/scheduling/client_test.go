package scheduling_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/bookingload"
	"github.com/leadflow/meeting-router/internal/scheduling"
)

func newClient(t *testing.T, handler http.HandlerFunc) *scheduling.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := scheduling.Config{BaseURL: srv.URL, APIKey: "test-key", TeamID: "42"}
	return scheduling.NewClient(cfg, srv.Client(), zap.NewNop().Sugar())
}

func TestListTeamMemberships(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/teams/42/memberships", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"status":"success","data":[
			{"userId":7,"accepted":true,"user":{"email":"Dana@Example.com"}},
			{"userId":8,"accepted":false,"user":{"email":"pending@example.com"}}
		]}`)
	})

	got, err := client.ListTeamMemberships(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, scheduling.Membership{AccountID: 7, Accepted: true, Email: "Dana@Example.com"}, got[0])
	assert.False(t, got[1].Accepted)
}

func TestListTeamMembershipsServerError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.ListTeamMemberships(context.Background())
	require.Error(t, err)
}

func TestListTeamMembershipsMissingConfig(t *testing.T) {
	client := scheduling.NewClient(scheduling.Config{}, nil, zap.NewNop().Sugar())
	_, err := client.ListTeamMemberships(context.Background())
	assert.ErrorIs(t, err, scheduling.ErrMissingConfig)
}

func TestBookingPagesPagination(t *testing.T) {
	window := bookingload.Window{
		After:  time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		Before: time.Date(2026, time.September, 30, 23, 59, 59, 0, time.UTC),
	}

	var requestedPages []string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requestedPages = append(requestedPages, q.Get("page"))
		assert.Equal(t, "/v2/bookings", r.URL.Path)
		assert.Equal(t, "2026-08-01T00:00:00Z", q.Get("afterStart"))
		assert.Equal(t, "upcoming,recurring,past", q.Get("status"))
		assert.Equal(t, "100", q.Get("take"))

		if q.Get("page") == "1" {
			fmt.Fprint(w, `{"data":{"bookings":[
				{"user":{"id":3},"startTime":"2026-08-05T09:00:00Z"}
			],"nextCursor":2}}`)
			return
		}
		fmt.Fprint(w, `{"data":{"bookings":[
			{"user":{"id":4},"start":"2026-09-05T09:00:00Z"},
			{"user":{},"startTime":"2026-09-06T09:00:00Z"},
			{"user":{"id":5}}
		],"nextCursor":null}}`)
	})

	pager := client.BookingPages(window, bookingload.Statuses)

	first, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.True(t, first.HasNextPage)
	assert.Equal(t, int64(3), first.Items[0].AccountID)

	second, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, second.HasNextPage)
	require.Len(t, second.Items, 3)
	// "start" is accepted as a fallback field name.
	assert.Equal(t, time.Date(2026, time.September, 5, 9, 0, 0, 0, time.UTC), second.Items[0].Start.UTC())
	// Missing host and missing start survive as zero values for the
	// aggregator to skip.
	assert.Zero(t, second.Items[1].AccountID)
	assert.True(t, second.Items[2].Start.IsZero())

	assert.Equal(t, []string{"1", "2"}, requestedPages)
}

func TestBookingPagesSequencesAreIndependent(t *testing.T) {
	var pages []string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"data":{"bookings":[],"nextCursor":null}}`)
	})

	window := bookingload.Window{After: time.Now(), Before: time.Now()}
	_, err := client.BookingPages(window, bookingload.Statuses).Next(context.Background())
	require.NoError(t, err)
	_, err = client.BookingPages(window, bookingload.Statuses).Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "1"}, pages)
}

func TestBookingPagesServerError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	window := bookingload.Window{After: time.Now(), Before: time.Now()}
	_, err := client.BookingPages(window, bookingload.Statuses).Next(context.Background())
	require.Error(t, err)
}
