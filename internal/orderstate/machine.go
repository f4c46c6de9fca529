package orderstate

import "github.com/opticore/lenscard-backend/pkg/enums"

// Decision is the outcome of asking the provenance machine whether a
// recalculation may run. The string values double as metric labels.
type Decision string

const (
	DecisionPerformed         Decision = "performed"
	DecisionBlockedProvenance Decision = "blocked_provenance"
	DecisionBlockedLoading    Decision = "blocked_loading"
	DecisionSkippedNoop       Decision = "skipped_noop"
)

// Decide is the single recalculation guard. Stored totals may encode rounding
// or manual adjustments the current formula cannot reproduce, so anything
// short of an explicit user action must not overwrite them. A load in
// progress blocks everything.
func Decide(p enums.Provenance, explicitUserAction, loading bool) Decision {
	if loading {
		return DecisionBlockedLoading
	}
	if p == enums.ProvenanceDatabaseValues && !explicitUserAction {
		return DecisionBlockedProvenance
	}
	return DecisionPerformed
}
