package assignment

import "github.com/leadflow/meeting-router/internal/directory"

// RecordEligible reports whether a single directory record survives the
// request's filters. The check is identity-independent so it can be
// applied to raw records as well as resolved candidates.
//
// Automatic mode drops blocked records and records excluded by either
// the specialization selector or the interest signal; both filters are
// independent AND conditions. Manual mode bypasses block status and
// interest entirely but keeps the specialization exclusion: the
// dispatcher is narrowing a roster by specialty, not bypassing it.
func RecordEligible(rec directory.Record, req Request) bool {
	if req.Mode == ModeAutomatic {
		if rec.Blocked {
			return false
		}
		if req.Interest != "" && rec.Excludes(req.Interest) {
			return false
		}
	}
	if req.Specialization != "" && rec.Excludes(req.Specialization) {
		return false
	}
	return true
}

// Eligible filters a candidate pool by RecordEligible.
func Eligible(cands []Candidate, req Request) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if RecordEligible(c.Record, req) {
			out = append(out, c)
		}
	}
	return out
}
