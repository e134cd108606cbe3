package organizer

// State tracks one run through the pipeline. Review may repeat (the
// reviewer saves and resumes at will), and a run may be abandoned in any
// state before Reconciled: the pending file stays on disk and nothing
// external has been mutated.
type State int

const (
	StateIdle State = iota
	StateFetched
	StateClassified
	StatePendingReview
	StateReconciled
	StateLabelsApplied
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateFetched:
		return "FETCHED"
	case StateClassified:
		return "CLASSIFIED"
	case StatePendingReview:
		return "PENDING_REVIEW"
	case StateReconciled:
		return "RECONCILED"
	case StateLabelsApplied:
		return "LABELS_APPLIED"
	default:
		return "UNKNOWN"
	}
}

// canAdvance reports whether moving from s to next is a legal transition.
func (s State) canAdvance(next State) bool {
	if s == StatePendingReview && next == StatePendingReview {
		return true
	}
	return next == s+1
}
