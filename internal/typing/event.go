package typing

import (
	"fmt"
	"time"
)

// KeyKind identifies a logical key event.
type KeyKind int

const (
	// KeyChar types a character.
	KeyChar KeyKind = iota
	// KeyBackspace erases the previous slot.
	KeyBackspace
	// KeyAbort stops a running session.
	KeyAbort
)

// String returns the kind name.
func (k KeyKind) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyBackspace:
		return "backspace"
	case KeyAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// KeyEvent is a decoded key press. A zero At is stamped by the session clock.
type KeyEvent struct {
	Kind KeyKind
	Char rune
	At   time.Time
}

// Char returns a character key event.
func Char(r rune, at time.Time) KeyEvent {
	return KeyEvent{Kind: KeyChar, Char: r, At: at}
}

// Backspace returns a backspace event.
func Backspace(at time.Time) KeyEvent {
	return KeyEvent{Kind: KeyBackspace, At: at}
}

// Abort returns an abort event.
func Abort(at time.Time) KeyEvent {
	return KeyEvent{Kind: KeyAbort, At: at}
}

func (e KeyEvent) String() string {
	if e.Kind == KeyChar {
		return fmt.Sprintf("char(%q)", e.Char)
	}
	return e.Kind.String()
}
