// Package scheduling is the HTTP client for the Cal.com-style scheduling
// platform: team memberships and the paginated booking list.
package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/bookingload"
)

const bookingsPageSize = 100

// Membership is one platform team membership. Only accepted memberships
// with an email can be joined to directory records.
type Membership struct {
	AccountID int64
	Accepted  bool
	Email     string
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.SugaredLogger
}

func NewClient(cfg Config, hc *http.Client, logger *zap.SugaredLogger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{cfg: cfg, http: hc, logger: logger}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build scheduling request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scheduling request: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read scheduling response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scheduling platform responded %d for %s", resp.StatusCode, path)
	}
	return buf.Bytes(), nil
}

type membershipPayload struct {
	Data []struct {
		UserID   int64 `json:"userId"`
		Accepted bool  `json:"accepted"`
		User     struct {
			Email string `json:"email"`
		} `json:"user"`
	} `json:"data"`
}

// ListTeamMemberships fetches the full membership list for the
// configured team.
func (c *Client) ListTeamMemberships(ctx context.Context) ([]Membership, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	body, err := c.get(ctx, "/v2/teams/"+c.cfg.TeamID+"/memberships", nil)
	if err != nil {
		return nil, err
	}
	var payload membershipPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode memberships: %w", err)
	}
	out := make([]Membership, 0, len(payload.Data))
	for _, m := range payload.Data {
		out = append(out, Membership{AccountID: m.UserID, Accepted: m.Accepted, Email: m.User.Email})
	}
	return out, nil
}

// BookingPages opens a page sequence over the booking list for the given
// window and status set. The sequence is restartable: each call returns
// an independent pager starting at page one.
func (c *Client) BookingPages(window bookingload.Window, statuses []string) bookingload.Pager {
	return &bookingPager{client: c, window: window, statuses: statuses, page: 1}
}

type bookingPager struct {
	client   *Client
	window   bookingload.Window
	statuses []string
	page     int
}

type bookingsPayload struct {
	Data struct {
		Bookings []struct {
			Start     string `json:"start"`
			StartTime string `json:"startTime"`
			User      struct {
				ID int64 `json:"id"`
			} `json:"user"`
		} `json:"bookings"`
		NextCursor json.RawMessage `json:"nextCursor"`
	} `json:"data"`
}

// Next fetches one page. Termination is signaled through
// Page.HasNextPage: the loop ends on cursor absence, never on an empty
// page.
func (p *bookingPager) Next(ctx context.Context) (bookingload.Page, error) {
	if err := p.client.cfg.Validate(); err != nil {
		return bookingload.Page{}, err
	}
	q := url.Values{}
	q.Set("afterStart", p.window.After.Format(time.RFC3339))
	q.Set("beforeEnd", p.window.Before.Format(time.RFC3339))
	q.Set("status", strings.Join(p.statuses, ","))
	q.Set("take", strconv.Itoa(bookingsPageSize))
	q.Set("page", strconv.Itoa(p.page))

	body, err := p.client.get(ctx, "/v2/bookings", q)
	if err != nil {
		return bookingload.Page{}, err
	}
	var payload bookingsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return bookingload.Page{}, fmt.Errorf("decode bookings page %d: %w", p.page, err)
	}
	p.page++

	page := bookingload.Page{
		Items:       make([]bookingload.Booking, 0, len(payload.Data.Bookings)),
		HasNextPage: cursorPresent(payload.Data.NextCursor),
	}
	for _, b := range payload.Data.Bookings {
		item := bookingload.Booking{AccountID: b.User.ID}
		raw := b.StartTime
		if raw == "" {
			raw = b.Start
		}
		if raw != "" {
			if ts, err := time.Parse(time.RFC3339, raw); err == nil {
				item.Start = ts
			}
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

func cursorPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
