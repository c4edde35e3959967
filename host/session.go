package host

// State is a Session's position in its one-way state machine:
// proposed -> initializing -> ready -> shutting_down -> terminated.
// Transitions never go backward; a failed dial goes straight from
// initializing to terminated. A ready session's transport is not watched
// for failure, and there is no automatic restart — a caller must register
// the session again.
type State string

const (
	Proposed     State = "proposed"
	Initializing State = "initializing"
	Ready        State = "ready"
	ShuttingDown State = "shutting_down"
	Terminated   State = "terminated"
)

var validTransitions = map[State][]State{
	Proposed:     {Initializing, Terminated},
	Initializing: {Ready, Terminated},
	Ready:        {ShuttingDown, Terminated},
	ShuttingDown: {Terminated},
	Terminated:   {},
}

// CanTransition reports whether moving from 'from' to 'to' is a legal
// one-way step.
func CanTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
