// Package assignment routes incoming meeting requests to a candidate
// list of human agents, honoring eligibility flags, per-agent monthly
// quotas and an opt-in even-distribution policy.
package assignment

import "github.com/leadflow/meeting-router/internal/directory"

// Mode selects between automatic routing and a dispatcher manually
// directing an assignment. The mode is threaded through the whole
// pipeline so its effect stays auditable in one place.
type Mode int

const (
	// ModeAutomatic applies the full safety and quota pipeline.
	ModeAutomatic Mode = iota
	// ModeManual narrows the roster by specialty only: a dispatcher is
	// explicitly overriding block-status and interest filtering, and
	// manual assignment never defers to quota logic.
	ModeManual
)

func (m Mode) String() string {
	if m == ModeManual {
		return "manual"
	}
	return "automatic"
}

// Request carries the caller's filters and operating mode.
type Request struct {
	// Specialization is the optional category selector chosen by a
	// dispatcher.
	Specialization string
	// Interest is the optional, independently-sourced category signal
	// derived from the lead's originating subject matter.
	Interest string
	// EvenDistribution opts into the fairness selector.
	EvenDistribution bool
	Mode             Mode
}

// Candidate joins a directory record with its resolved scheduling
// account id. A candidate always carries a non-zero account id; records
// whose email has no accepted, resolvable account are dropped before any
// further processing.
type Candidate struct {
	Record    directory.Record
	AccountID int64
}

// Agent is the response shape offered to the booking form.
type Agent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	AccountID    int64  `json:"accountId,omitempty"`
	DailyLimit   *int   `json:"dailyLimit,omitempty"`
	MonthlyLimit *int   `json:"monthlyLimit,omitempty"`
	Weight       *int   `json:"weight,omitempty"`
	Phone        string `json:"phone,omitempty"`
}
