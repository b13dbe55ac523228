package blip

// State is the lifecycle state of a blip.
//
// The machine is:
//
//	captured --(addNote)--> incubating
//	captured|incubating|active --(snooze)--> incubating
//	captured|incubating|active --(archive)--> archived
//	captured|incubating|active --(promote)--> promoted
//
// archived and promoted are terminal.
type State string

const (
	StateCaptured   State = "captured"
	StateIncubating State = "incubating"
	StateActive     State = "active"
	StateArchived   State = "archived"
	StatePromoted   State = "promoted"
)

// States lists all valid states in lifecycle order.
var States = []State{StateCaptured, StateIncubating, StateActive, StateArchived, StatePromoted}

// ParseState validates a raw state string.
func ParseState(s string) (State, bool) {
	state := State(s)
	return state, state.Valid()
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateCaptured, StateIncubating, StateActive, StateArchived, StatePromoted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s State) Terminal() bool {
	return s == StateArchived || s == StatePromoted
}

// CanTransition reports whether a transition from s to target is allowed.
// Any non-terminal state may move to any other valid state; terminal states
// accept nothing.
func (s State) CanTransition(target State) bool {
	return s.Valid() && !s.Terminal() && target.Valid()
}
