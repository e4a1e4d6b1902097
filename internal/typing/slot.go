// Package typing implements the typing session engine: target slots, cursor,
// timing, lifecycle state and the metrics derived from them.
package typing

// Status is the typed status of a single slot.
type Status int

const (
	// Pending means the slot has not been typed, or was erased by backspace.
	Pending Status = iota
	// Correct means the typed rune matched the expected rune.
	Correct
	// Incorrect means a different rune was typed; see Slot.Typed.
	Incorrect
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Slot is one position of the target text.
type Slot struct {
	Expected rune
	Status   Status
	// Typed holds the mistyped rune when Status is Incorrect and is zero otherwise.
	Typed rune
}

// NewSlot returns a pending slot for the expected rune.
func NewSlot(expected rune) Slot {
	return Slot{Expected: expected}
}

