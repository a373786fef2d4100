package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Client talks to the Airtable-backed system of record. All tables share
// the same base and bearer credential.
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

type airtableRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type airtableList struct {
	Records []airtableRecord `json:"records"`
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/v0/%s/%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.BaseID, table)
}

func (c *Client) list(ctx context.Context, table string, query url.Values) ([]airtableRecord, error) {
	u := c.tableURL(table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory responded %d for table %s", resp.StatusCode, table)
	}

	var out airtableList
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	return out.Records, nil
}

// ListAgents fetches the full roster. No local caching: routing flags and
// traffic-light status change mid-day and must be honored immediately.
func (c *Client) ListAgents(ctx context.Context) ([]Record, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	raw, err := c.list(ctx, c.cfg.AgentsTable, nil)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		rec := Record{
			ID:           r.ID,
			FirstName:    fieldString(r.Fields, fieldFirstName),
			LastName:     fieldString(r.Fields, fieldLastName),
			Email:        fieldString(r.Fields, fieldEmail),
			Phone:        fieldString(r.Fields, fieldPhone),
			Blocked:      fieldString(r.Fields, fieldTrafficLight) == blockedSentinel,
			Exclusions:   boolFields(r.Fields),
			DailyLimit:   fieldIntPtr(r.Fields, fieldDailyLimit),
			MonthlyLimit: fieldIntPtr(r.Fields, fieldMonthlyLimit),
			Weight:       fieldIntPtr(r.Fields, fieldWeight),
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListSpecializations fetches the lead-category table.
func (c *Client) ListSpecializations(ctx context.Context) ([]Specialization, error) {
	if c.cfg.SpecializationsTable == "" {
		return nil, ErrMissingConfig
	}
	raw, err := c.list(ctx, c.cfg.SpecializationsTable, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Specialization, 0, len(raw))
	for _, r := range raw {
		name := fieldString(r.Fields, fieldSpecializationName)
		if name == "" {
			continue
		}
		out = append(out, Specialization{ID: r.ID, Name: name})
	}
	return out, nil
}

// FindUser looks up a dispatcher account by username. Returns (nil, nil)
// when no such user exists.
func (c *Client) FindUser(ctx context.Context, username string) (*User, error) {
	if c.cfg.UsersTable == "" {
		return nil, ErrMissingConfig
	}
	formula := fmt.Sprintf(`{%s}="%s"`, fieldUsername, strings.ReplaceAll(username, `"`, `\"`))
	q := url.Values{}
	q.Set("filterByFormula", formula)
	q.Set("maxRecords", "1")

	raw, err := c.list(ctx, c.cfg.UsersTable, q)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	r := raw[0]
	u := &User{
		ID:          r.ID,
		Username:    fieldString(r.Fields, fieldUsername),
		Password:    fieldString(r.Fields, fieldPassword),
		DisplayName: fieldString(r.Fields, fieldDisplayName),
	}
	if u.DisplayName == "" {
		u.DisplayName = username
	}
	return u, nil
}

// CreateManualAssignment documents a manual assignment decision in the
// audit table: which dispatcher assigned which agent.
func (c *Client) CreateManualAssignment(ctx context.Context, username, agentName string) error {
	if c.cfg.AssignmentsTable == "" {
		return ErrMissingConfig
	}
	payload := map[string]any{
		"records": []any{
			map[string]any{
				"fields": map[string]string{
					fieldAssignmentUser:  username,
					fieldAssignmentAgent: agentName,
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode assignment record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(c.cfg.AssignmentsTable), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build assignment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("assignment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directory responded %d documenting assignment", resp.StatusCode)
	}
	return nil
}

func fieldString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// fieldIntPtr reads an optional numeric column. Airtable numbers decode
// as float64.
func fieldIntPtr(fields map[string]any, key string) *int {
	if v, ok := fields[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

// boolFields collects every checkbox column on the record. Category
// exclusion flags are checkbox columns named after the category, so the
// full set is kept rather than a fixed list.
func boolFields(fields map[string]any) map[string]bool {
	out := make(map[string]bool)
	for k, v := range fields {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}
