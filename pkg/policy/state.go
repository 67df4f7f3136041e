// Package policy decides which instances an action applies to.
package policy

import "github.com/younsl/ec2tags/internal/models"

// States in which an action has already been reached or cannot be undone
var (
	terminateExcluded = []models.InstanceState{
		models.StateTerminated,
		models.StateShuttingDown,
	}
	stopExcluded = []models.InstanceState{
		models.StateTerminated,
		models.StateShuttingDown,
		models.StateStopping,
		models.StateStopped,
	}
)

// IsActionable reports whether an instance in the given state may receive the action.
// Unknown states are actionable; unknown actions never are.
func IsActionable(action models.Action, state models.InstanceState) bool {
	switch action {
	case models.ActionTerminate:
		return !contains(terminateExcluded, state)
	case models.ActionStop:
		return !contains(stopExcluded, state)
	default:
		return false
	}
}

func contains(states []models.InstanceState, state models.InstanceState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
