// Package identity maps directory emails to scheduling-platform account
// ids, backed by a time-boxed in-process cache.
package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/metrics"
	"github.com/leadflow/meeting-router/internal/scheduling"
)

// DefaultTTL bounds how long a resolved mapping is reused before a
// rebuild is attempted.
const DefaultTTL = 5 * time.Minute

// MembershipPort supplies the full team membership list.
type MembershipPort interface {
	ListTeamMemberships(ctx context.Context) ([]scheduling.Membership, error)
}

type snapshot struct {
	byEmail map[string]int64
	takenAt time.Time
}

// Correlator resolves the email → account-id mapping. It is the sole
// piece of shared mutable state in the engine: the snapshot pointer is
// swapped under the mutex and read under RLock, so readers never block
// on a refresh in another request.
type Correlator struct {
	port   MembershipPort
	clock  clockwork.Clock
	ttl    time.Duration
	logger *zap.SugaredLogger

	mu   sync.RWMutex
	snap *snapshot
}

func NewCorrelator(port MembershipPort, clock clockwork.Clock, logger *zap.SugaredLogger) *Correlator {
	return &Correlator{port: port, clock: clock, ttl: DefaultTTL, logger: logger}
}

// Resolve returns the email → account-id mapping, keyed by lowercased
// email and restricted to accepted memberships. Within the TTL the
// cached mapping is returned without a remote call. On a failed rebuild
// the last good mapping is served however stale it is; an empty mapping
// is returned only when no rebuild ever succeeded. Resolve never
// returns an error.
func (c *Correlator) Resolve(ctx context.Context) map[string]int64 {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && c.clock.Since(snap.takenAt) <= c.ttl {
		metrics.IdentityCacheHits.Inc()
		return snap.byEmail
	}

	memberships, err := c.port.ListTeamMemberships(ctx)
	if err != nil {
		metrics.IdentityRefreshFailures.Inc()
		if snap != nil {
			c.logger.Warnw("identity refresh failed, serving stale mapping",
				"err", err, "age", c.clock.Since(snap.takenAt))
			return snap.byEmail
		}
		c.logger.Warnw("identity refresh failed with no prior mapping", "err", err)
		return map[string]int64{}
	}

	byEmail := make(map[string]int64, len(memberships))
	for _, m := range memberships {
		if !m.Accepted || m.Email == "" || m.AccountID == 0 {
			continue
		}
		byEmail[strings.ToLower(m.Email)] = m.AccountID
	}

	fresh := &snapshot{byEmail: byEmail, takenAt: c.clock.Now()}
	c.mu.Lock()
	c.snap = fresh
	c.mu.Unlock()

	metrics.IdentityCacheRefreshes.Inc()
	return byEmail
}
