package pipeline

import "fmt"

// State is a position in the push state machine.
type State int

const (
	StateIdle State = iota
	StateNetworkCreated
	StateLayoutApplied
	StateStylesCleared
	StateStyleRegistered
	StateStyleApplied
	StateFailed
)

// States lists the transitions of a complete run in order.
var States = []State{
	StateNetworkCreated,
	StateLayoutApplied,
	StateStylesCleared,
	StateStyleRegistered,
	StateStyleApplied,
}

var stateNames = map[State]string{
	StateIdle:            "idle",
	StateNetworkCreated:  "network-created",
	StateLayoutApplied:   "layout-applied",
	StateStylesCleared:   "styles-cleared",
	StateStyleRegistered: "style-registered",
	StateStyleApplied:    "style-applied",
	StateFailed:          "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StepError is the terminal error of a run that failed while moving into
// State. Completed lists the states reached before the failure; their
// server-side effects are left in place.
type StepError struct {
	State     State
	Completed []State
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Reached returns the last state reached before the failure.
func (e *StepError) Reached() State {
	if len(e.Completed) == 0 {
		return StateIdle
	}
	return e.Completed[len(e.Completed)-1]
}

// Transition payloads. Each step consumes the previous payload and
// produces the next one.
type (
	created    struct{ suid int64 }
	registered struct {
		suid  int64
		title string
	}
)
