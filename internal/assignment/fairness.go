package assignment

import "github.com/leadflow/meeting-router/internal/bookingload"

// FairnessGap is how far above the least-loaded agent a candidate's
// effective count may sit and still be offered.
const FairnessGap = 3

// effectiveCount is the booking count fairness compares: the current
// month, unless that month already meets the candidate's cap, in which
// case the next month — the month the candidate can actually still be
// booked into.
func effectiveCount(c Candidate, counts bookingload.Counts) int {
	cur := counts.Current[c.AccountID]
	if limit := c.Record.MonthlyLimit; limit != nil && cur >= *limit {
		return counts.Next[c.AccountID]
	}
	return cur
}

// Balance narrows the pool to candidates within FairnessGap of the
// least-loaded one. Pools of size 0 or 1 are returned unchanged: at that
// size this is a no-op, not a filter.
func Balance(cands []Candidate, counts bookingload.Counts) []Candidate {
	if len(cands) <= 1 {
		return cands
	}

	minEffective := effectiveCount(cands[0], counts)
	for _, c := range cands[1:] {
		if n := effectiveCount(c, counts); n < minEffective {
			minEffective = n
		}
	}

	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if effectiveCount(c, counts) <= minEffective+FairnessGap {
			out = append(out, c)
		}
	}
	return out
}
