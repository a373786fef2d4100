package assignment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leadflow/meeting-router/internal/bookingload"
	"github.com/leadflow/meeting-router/internal/directory"
	"github.com/leadflow/meeting-router/internal/metrics"
)

// DirectoryPort supplies the full agent roster. A failure here is fatal
// to the request: there is no roster to offer.
type DirectoryPort interface {
	ListAgents(ctx context.Context) ([]directory.Record, error)
}

// IdentityPort resolves the email → scheduling-account-id mapping.
// Failures are absorbed inside the port.
type IdentityPort interface {
	Resolve(ctx context.Context) map[string]int64
}

// LoadPort supplies per-account booking counts. Failures are absorbed
// inside the port.
type LoadPort interface {
	Load(ctx context.Context) bookingload.Counts
}

// Resolver orchestrates the assignment pipeline.
type Resolver struct {
	directory DirectoryPort
	identity  IdentityPort
	load      LoadPort
	logger    *zap.SugaredLogger
}

func NewResolver(dir DirectoryPort, id IdentityPort, load LoadPort, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{directory: dir, identity: id, load: load, logger: logger}
}

// Assign produces the ordered candidate list for one meeting request.
//
// The directory fetch, identity resolve and booking load are independent
// subtasks and run concurrently; the pipeline starts once all three have
// joined. Booking counts are skipped in manual mode, which does not
// enforce quotas.
func (r *Resolver) Assign(ctx context.Context, req Request) ([]Agent, error) {
	var (
		records []directory.Record
		dirErr  error
		ids     map[string]int64
		counts  = bookingload.EmptyCounts()
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		records, dirErr = r.directory.ListAgents(ctx)
	}()
	go func() {
		defer wg.Done()
		ids = r.identity.Resolve(ctx)
	}()
	if req.Mode == ModeAutomatic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts = r.load.Load(ctx)
		}()
	}
	wg.Wait()

	if dirErr != nil {
		return nil, fmt.Errorf("fetch agent roster: %w", dirErr)
	}

	// Join records to scheduling accounts; an agent without an accepted
	// account cannot be booked regardless of eligibility.
	cands := make([]Candidate, 0, len(records))
	for _, rec := range records {
		if rec.Email == "" {
			continue
		}
		id, ok := ids[strings.ToLower(rec.Email)]
		if !ok {
			continue
		}
		cands = append(cands, Candidate{Record: rec, AccountID: id})
	}

	cands = Eligible(cands, req)
	selected, degraded := SelectPool(cands, counts, req.Mode)
	if degraded {
		r.logger.Infow("all eligible agents at quota, serving fallback pool",
			"pool_size", len(selected))
		metrics.QuotaFallbackTotal.Inc()
	}
	if req.EvenDistribution && req.Mode == ModeAutomatic {
		selected = Balance(selected, counts)
	}

	agents := make([]Agent, 0, len(selected))
	for _, c := range selected {
		agents = append(agents, Agent{
			ID:           c.Record.ID,
			Name:         c.Record.Name(),
			Email:        c.Record.Email,
			AccountID:    c.AccountID,
			DailyLimit:   c.Record.DailyLimit,
			MonthlyLimit: c.Record.MonthlyLimit,
			Weight:       c.Record.Weight,
			Phone:        c.Record.Phone,
		})
	}
	sortAgents(agents)
	return agents, nil
}

// sortAgents orders by name under Hebrew collation. Collators are not
// safe for concurrent use, so one is built per call.
func sortAgents(agents []Agent) {
	col := collate.New(language.Hebrew)
	sort.SliceStable(agents, func(i, j int) bool {
		return col.CompareString(agents[i].Name, agents[j].Name) < 0
	})
}
