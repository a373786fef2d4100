package assignment

import "github.com/leadflow/meeting-router/internal/bookingload"

// atQuota reports whether the candidate has exhausted its monthly cap in
// both the current and next calendar month. A candidate exhausted only
// in the current month can still be booked into the next one, and a nil
// limit means unlimited capacity.
func atQuota(c Candidate, counts bookingload.Counts) bool {
	limit := c.Record.MonthlyLimit
	if limit == nil {
		return false
	}
	return counts.Current[c.AccountID] >= *limit && counts.Next[c.AccountID] >= *limit
}

// Partition splits candidates into a primary pool (within quota) and a
// fallback pool (at quota in both months).
func Partition(cands []Candidate, counts bookingload.Counts) (primary, fallback []Candidate) {
	for _, c := range cands {
		if atQuota(c, counts) {
			fallback = append(fallback, c)
		} else {
			primary = append(primary, c)
		}
	}
	return primary, fallback
}

// SelectPool returns the pool that governs the response: primary when it
// has members, otherwise the fallback pool. The engine never returns an
// empty result merely because every agent hit a soft cap; it degrades to
// offering everyone. Manual mode returns the input unchanged.
func SelectPool(cands []Candidate, counts bookingload.Counts, mode Mode) (selected []Candidate, degraded bool) {
	if mode == ModeManual {
		return cands, false
	}
	primary, fallback := Partition(cands, counts)
	if len(primary) > 0 {
		return primary, false
	}
	return fallback, len(fallback) > 0
}
