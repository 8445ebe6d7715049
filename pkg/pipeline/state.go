package pipeline

import "fmt"

// State is a position in the pipeline state machine.
// Repairing -> Converting -> BuildingFoundation -> Done, with any failure
// jumping straight to Failed.
type State int

const (
	StatePending State = iota
	StateRepairing
	StateConverting
	StateBuildingFoundation
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRepairing:
		return "repairing"
	case StateConverting:
		return "converting"
	case StateBuildingFoundation:
		return "building foundation"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StageError reports which state the pipeline was in when it failed
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
