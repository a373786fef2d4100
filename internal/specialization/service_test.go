package specialization_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/directory"
	"github.com/leadflow/meeting-router/internal/specialization"
)

type stubPort struct {
	items []directory.Specialization
	err   error
	calls int
}

func (s *stubPort) ListSpecializations(ctx context.Context) ([]directory.Specialization, error) {
	s.calls++
	return s.items, s.err
}

func TestListSortsByHebrewName(t *testing.T) {
	port := &stubPort{items: []directory.Specialization{
		{ID: "2", Name: "משכנתא"},
		{ID: "1", Name: "ביטוח"},
	}}
	svc := specialization.NewService(port, clockwork.NewFakeClock(), zap.NewNop().Sugar())

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ביטוח", got[0].Name)
	assert.Equal(t, "משכנתא", got[1].Name)
}

func TestListCachesWithinTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	port := &stubPort{items: []directory.Specialization{{ID: "1", Name: "א"}}}
	svc := specialization.NewService(port, clock, zap.NewNop().Sugar())

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, port.calls)

	clock.Advance(10 * time.Minute)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, port.calls)
}

func TestListServesStaleOnRefreshFailure(t *testing.T) {
	clock := clockwork.NewFakeClock()
	port := &stubPort{items: []directory.Specialization{{ID: "1", Name: "א"}}}
	svc := specialization.NewService(port, clock, zap.NewNop().Sugar())

	first, err := svc.List(context.Background())
	require.NoError(t, err)

	port.err = errors.New("directory down")
	clock.Advance(10 * time.Minute)
	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestListErrorsWithNoPriorSuccess(t *testing.T) {
	port := &stubPort{err: errors.New("directory down")}
	svc := specialization.NewService(port, clockwork.NewFakeClock(), zap.NewNop().Sugar())
	_, err := svc.List(context.Background())
	require.Error(t, err)
}
