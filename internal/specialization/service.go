// Package specialization serves the selectable lead categories, cached
// in-process because the category table changes rarely.
package specialization

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leadflow/meeting-router/internal/directory"
)

// DefaultTTL bounds how long the category list is reused.
const DefaultTTL = 5 * time.Minute

// Port supplies the category table.
type Port interface {
	ListSpecializations(ctx context.Context) ([]directory.Specialization, error)
}

type snapshot struct {
	items   []directory.Specialization
	takenAt time.Time
}

type Service struct {
	port   Port
	clock  clockwork.Clock
	ttl    time.Duration
	logger *zap.SugaredLogger

	mu   sync.RWMutex
	snap *snapshot
}

func NewService(port Port, clock clockwork.Clock, logger *zap.SugaredLogger) *Service {
	return &Service{port: port, clock: clock, ttl: DefaultTTL, logger: logger}
}

// List returns the categories ordered by Hebrew collation. Within the
// TTL the cached list is returned; a failed refresh serves the stale
// list when one exists.
func (s *Service) List(ctx context.Context) ([]directory.Specialization, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap != nil && s.clock.Since(snap.takenAt) <= s.ttl {
		return snap.items, nil
	}

	items, err := s.port.ListSpecializations(ctx)
	if err != nil {
		if snap != nil {
			s.logger.Warnw("specialization refresh failed, serving stale list", "err", err)
			return snap.items, nil
		}
		return nil, err
	}

	col := collate.New(language.Hebrew)
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})

	fresh := &snapshot{items: items, takenAt: s.clock.Now()}
	s.mu.Lock()
	s.snap = fresh
	s.mu.Unlock()
	return items, nil
}
