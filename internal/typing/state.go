package typing

// State is the lifecycle state of a session.
type State int

const (
	// NotStarted is the initial state; no character has been typed yet.
	NotStarted State = iota
	// Running means the clock is ticking.
	Running
	// Finished means the last slot was typed.
	Finished
	// Aborted means the operator stopped a running session.
	Aborted
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can leave the state.
func (s State) Terminal() bool {
	return s == Finished || s == Aborted
}

// next returns the state reached from s on an event of kind k. atEnd reports
// whether the cursor sits on the last slot once a character key is applied.
func next(s State, k KeyKind, atEnd bool) State {
	if s.Terminal() {
		return s
	}
	switch k {
	case KeyChar:
		if atEnd {
			return Finished
		}
		return Running
	case KeyAbort:
		if s == Running {
			return Aborted
		}
	}
	return s
}
