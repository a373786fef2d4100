package assignment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadflow/meeting-router/internal/assignment"
	"github.com/leadflow/meeting-router/internal/bookingload"
	"github.com/leadflow/meeting-router/internal/directory"
)

func intPtr(n int) *int { return &n }

func candidate(id string, accountID int64, monthlyLimit *int) assignment.Candidate {
	return assignment.Candidate{
		Record:    directory.Record{ID: id, FirstName: id, Email: id + "@example.com", MonthlyLimit: monthlyLimit},
		AccountID: accountID,
	}
}

func countsOf(current, next map[int64]int) bookingload.Counts {
	if current == nil {
		current = map[int64]int{}
	}
	if next == nil {
		next = map[int64]int{}
	}
	return bookingload.Counts{Current: current, Next: next}
}

func TestPartition(t *testing.T) {
	tests := map[string]struct {
		cands        []assignment.Candidate
		counts       bookingload.Counts
		wantPrimary  []string
		wantFallback []string
	}{
		"current month exhausted but next open stays primary": {
			cands: []assignment.Candidate{
				candidate("a", 1, intPtr(5)),
				candidate("b", 2, intPtr(5)),
			},
			counts: countsOf(
				map[int64]int{1: 5, 2: 5},
				map[int64]int{1: 2, 2: 5},
			),
			wantPrimary:  []string{"a"},
			wantFallback: []string{"b"},
		},
		"both months at limit lands in fallback": {
			cands:  []assignment.Candidate{candidate("a", 1, intPtr(3))},
			counts: countsOf(map[int64]int{1: 3}, map[int64]int{1: 4}),
			wantPrimary:  nil,
			wantFallback: []string{"a"},
		},
		"next month exhausted but current open stays primary": {
			cands:  []assignment.Candidate{candidate("a", 1, intPtr(3))},
			counts: countsOf(map[int64]int{1: 1}, map[int64]int{1: 3}),
			wantPrimary:  []string{"a"},
			wantFallback: nil,
		},
		"nil limit is never at quota": {
			cands:  []assignment.Candidate{candidate("a", 1, nil)},
			counts: countsOf(map[int64]int{1: 1000}, map[int64]int{1: 1000}),
			wantPrimary:  []string{"a"},
			wantFallback: nil,
		},
		"no counts recorded means within quota": {
			cands:  []assignment.Candidate{candidate("a", 1, intPtr(1))},
			counts: countsOf(nil, nil),
			wantPrimary:  []string{"a"},
			wantFallback: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			primary, fallback := assignment.Partition(tc.cands, tc.counts)
			assert.Equal(t, tc.wantPrimary, ids(primary))
			assert.Equal(t, tc.wantFallback, ids(fallback))
		})
	}
}

func TestSelectPoolFallsBackWhenEveryoneAtQuota(t *testing.T) {
	cands := []assignment.Candidate{
		candidate("a", 1, intPtr(5)),
		candidate("b", 2, intPtr(5)),
	}
	counts := countsOf(map[int64]int{1: 5, 2: 5}, map[int64]int{1: 5, 2: 5})

	selected, degraded := assignment.SelectPool(cands, counts, assignment.ModeAutomatic)
	assert.True(t, degraded)
	assert.Equal(t, []string{"a", "b"}, ids(selected))
}

func TestSelectPoolPrefersPrimary(t *testing.T) {
	cands := []assignment.Candidate{
		candidate("a", 1, intPtr(5)),
		candidate("b", 2, intPtr(5)),
	}
	counts := countsOf(map[int64]int{1: 5, 2: 5}, map[int64]int{1: 2, 2: 5})

	selected, degraded := assignment.SelectPool(cands, counts, assignment.ModeAutomatic)
	assert.False(t, degraded)
	assert.Equal(t, []string{"a"}, ids(selected))
}

func TestSelectPoolManualModeIsNoOp(t *testing.T) {
	cands := []assignment.Candidate{candidate("a", 1, intPtr(1))}
	counts := countsOf(map[int64]int{1: 9}, map[int64]int{1: 9})

	selected, degraded := assignment.SelectPool(cands, counts, assignment.ModeManual)
	assert.False(t, degraded)
	assert.Equal(t, cands, selected)
}

func ids(cands []assignment.Candidate) []string {
	if len(cands) == 0 {
		return nil
	}
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Record.ID)
	}
	return out
}
