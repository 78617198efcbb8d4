package Tasks

import (
	"Aegis/Models"
)

// AuditOutcome is a supervisor's judgment of a completed task. Outcomes
// map one-to-one onto the task's terminal statuses.
type AuditOutcome string

const (
	OutcomeApproved       AuditOutcome = AuditOutcome(Models.StatusApproved)
	OutcomeWrongExecution AuditOutcome = AuditOutcome(Models.StatusWrongExecution)
	OutcomeNotDone        AuditOutcome = AuditOutcome(Models.StatusNotDone)
)

// Penalty multipliers applied to a task's base points on non-compliant
// outcomes.
const (
	wrongExecutionMultiplier = 3
	notDoneMultiplier        = 5
)

// ValidOutcome reports whether o is one of the three audit outcomes.
func ValidOutcome(o AuditOutcome) bool {
	switch o {
	case OutcomeApproved, OutcomeWrongExecution, OutcomeNotDone:
		return true
	}
	return false
}

// ResolvePoints maps an audit outcome to the signed ledger delta:
// +base for approval, -3x for wrong execution, -5x for not done.
func ResolvePoints(outcome AuditOutcome, baseValue int) int {
	switch outcome {
	case OutcomeApproved:
		return baseValue
	case OutcomeWrongExecution:
		return -wrongExecutionMultiplier * baseValue
	case OutcomeNotDone:
		return -notDoneMultiplier * baseValue
	}
	return 0
}

// EntryKindFor returns the ledger kind matching an outcome's sign.
func EntryKindFor(outcome AuditOutcome) Models.EntryKind {
	if outcome == OutcomeApproved {
		return Models.EntryGain
	}
	return Models.EntryPenalty
}
