package dataset

import "github.com/samber/lo"

// Reconcile merges a reviewed pending batch into the verified corpus.
// Records whose email id is already verified are counted as duplicates and
// skipped; the rest are appended in batch order. Re-running with the same
// inputs after a successful merge adds nothing, and the corpus never
// shrinks.
func Reconcile(pending, verified []Record) (updated []Record, added, duplicates int) {
	seen := IDSet(verified)

	updated = make([]Record, len(verified), len(verified)+len(pending))
	copy(updated, verified)

	for _, rec := range pending {
		id := rec.Metadata.EmailID
		if _, ok := seen[id]; ok {
			duplicates++
			continue
		}
		updated = append(updated, rec)
		seen[id] = struct{}{}
		added++
	}
	return updated, added, duplicates
}

// IDSet collects the email ids of records, used both for dedup and to
// exclude already-verified messages from future fetches.
func IDSet(records []Record) map[string]struct{} {
	return lo.SliceToMap(records, func(r Record) (string, struct{}) {
		return r.Metadata.EmailID, struct{}{}
	})
}
