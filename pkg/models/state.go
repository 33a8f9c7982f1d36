package models

// TargetState is the lifecycle stage of a target's mitigation actions
type TargetState string

const (
	StateUntouched      TargetState = "Untouched"
	StatePartiallyActed TargetState = "PartiallyActed"
	StateResolved       TargetState = "Resolved"
)

// StateFor derives the state from the number of used actions out of the total defined
func StateFor(used, total int) TargetState {
	switch {
	case used == 0:
		return StateUntouched
	case used >= total:
		return StateResolved
	default:
		return StatePartiallyActed
	}
}
