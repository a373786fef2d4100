// Package leads proxies lead-number verification to the CRM webhook.
// Lookup misses are reported in the response body, never as a 5xx: the
// booking form shows the message to the dispatcher as-is.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrMissingConfig indicates the verification webhook is not configured.
var ErrMissingConfig = errors.New("missing lead webhook configuration")

// Operator-facing strings are Hebrew; the booking form renders them
// verbatim.
const (
	msgNotFound      = "מספר/י הליד/ים לא נמצאו, או שיש תקלה זמנית במערכת"
	msgMissingNumber = "חסר מספר ליד ראשי"
	msgConfigError   = "שגיאה בהגדרות המערכת"
)

type Config struct {
	WebhookURL string
	Secret     string
}

func ConfigFromEnv() Config {
	return Config{
		WebhookURL: os.Getenv("N8N_WEBHOOK_URL"),
		Secret:     os.Getenv("N8N_WEBHOOK_AUTH"),
	}
}

func (c Config) Validate() error {
	if c.WebhookURL == "" || c.Secret == "" {
		return ErrMissingConfig
	}
	return nil
}

// Lead is one verified lead record.
type Lead struct {
	Number       int    `json:"number"`
	ID           *int64 `json:"id,omitempty"`
	CustomerID   *int64 `json:"customerId,omitempty"`
	FullName     string `json:"fullName"`
	Email        string `json:"email,omitempty"`
	InterestName string `json:"interestName,omitempty"`
}

// Result is the verification outcome shown to the dispatcher.
type Result struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	PrimaryLead    *Lead  `json:"primaryLead,omitempty"`
	AdditionalLead *Lead  `json:"additionalLead,omitempty"`
}

type webhookLead struct {
	Number       int    `json:"number"`
	ID           *int64 `json:"id"`
	CustomerID   *int64 `json:"customerId"`
	FullName     string `json:"fullName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	InterestName string `json:"interestName"`
}

type webhookResponse struct {
	Results []webhookLead `json:"results"`
}

type Service struct {
	cfg    Config
	http   *http.Client
	logger *zap.SugaredLogger
}

func NewService(cfg Config, hc *http.Client, logger *zap.SugaredLogger) *Service {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Service{cfg: cfg, http: hc, logger: logger}
}

// Verify resolves the primary and optional additional lead numbers.
// Webhook failures and unknown numbers both yield a not-found Result;
// only a missing configuration is reported as an error.
func (s *Service) Verify(ctx context.Context, primary, additional string) (Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return Result{Success: false, Error: msgConfigError}, err
	}

	payload := map[string]string{"primaryLeadNumber": primary}
	if additional != "" {
		payload["additionalLeadNumber"] = additional
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Error: msgNotFound}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return Result{Success: false, Error: msgNotFound}, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", s.cfg.Secret)

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Warnw("lead webhook unreachable", "err", err)
		return Result{Success: false, Error: msgNotFound}, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Warnw("lead webhook rejected request", "status", resp.StatusCode)
		return Result{Success: false, Error: msgNotFound}, nil
	}

	var wr webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		s.logger.Warnw("lead webhook returned malformed body", "err", err)
		return Result{Success: false, Error: msgNotFound}, nil
	}

	primaryNum, _ := strconv.Atoi(primary)
	primaryLead := findLead(wr.Results, primaryNum)

	var additionalLead *Lead
	if additional != "" {
		additionalNum, _ := strconv.Atoi(additional)
		additionalLead = findLead(wr.Results, additionalNum)
		if additionalLead == nil {
			return Result{Success: false, Error: msgNotFound}, nil
		}
	}
	if primaryLead == nil {
		return Result{Success: false, Error: msgNotFound}, nil
	}

	return Result{Success: true, PrimaryLead: primaryLead, AdditionalLead: additionalLead}, nil
}

func findLead(results []webhookLead, number int) *Lead {
	for _, r := range results {
		if r.Number != number {
			continue
		}
		name := r.FullName
		if name == "" {
			name = strings.TrimSpace(r.FirstName + " " + r.LastName)
		}
		return &Lead{
			Number:       r.Number,
			ID:           r.ID,
			CustomerID:   r.CustomerID,
			FullName:     name,
			Email:        r.Email,
			InterestName: r.InterestName,
		}
	}
	return nil
}
