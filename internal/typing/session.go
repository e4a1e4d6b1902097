package typing

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidInput is returned when a session is created from an empty text.
var ErrInvalidInput = errors.New("invalid input")

// ChangeKind describes the effect of one applied key event.
type ChangeKind int

const (
	// ChangeNone means the event was a no-op.
	ChangeNone ChangeKind = iota
	// ChangeTyped means a slot was typed and the cursor advanced.
	ChangeTyped
	// ChangeErased means the previous slot was reset to Pending.
	ChangeErased
	// ChangeRejected means a mismatching key was refused in stop-on-error mode.
	ChangeRejected
	// ChangeAborted means a running session was aborted.
	ChangeAborted
)

// String returns the change name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeNone:
		return "none"
	case ChangeTyped:
		return "typed"
	case ChangeErased:
		return "erased"
	case ChangeRejected:
		return "rejected"
	case ChangeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Change reports what a single Apply call did.
type Change struct {
	Kind ChangeKind
	// Index is the slot that was typed, erased or rejected.
	Index    int
	Expected rune
	Typed    rune
	Matched  bool
	// Started is set when this event moved the session out of NotStarted.
	Started bool
	State   State
	At      time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to stamp events that carry no timestamp.
func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithStopOnError makes a mismatching key leave the cursor in place instead of
// recording an Incorrect slot and advancing.
func WithStopOnError(enabled bool) Option {
	return func(s *Session) {
		s.stopOnError = enabled
	}
}

// Session owns the slots of one practice text. It has a single writer (Apply)
// and any number of concurrent readers (Snapshot).
type Session struct {
	mu sync.RWMutex

	clock       Clock
	stopOnError bool

	slots     []Slot
	cursor    int
	state     State
	startedAt time.Time
	endedAt   time.Time
	// started and ended mark the timestamps as set, including when the
	// clock reports the zero time.
	started bool
	ended   bool

	keystrokes int
	mistakes   int
}

// New builds a session with one pending slot per rune of target.
func New(target string, opts ...Option) (*Session, error) {
	if target == "" {
		return nil, fmt.Errorf("%w: target text is empty", ErrInvalidInput)
	}
	runes := []rune(target)
	slots := make([]Slot, len(runes))
	for i, r := range runes {
		slots[i] = NewSlot(r)
	}
	s := &Session{
		clock: SystemClock{},
		slots: slots,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Len returns the number of slots.
func (s *Session) Len() int {
	return len(s.slots)
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Expected returns the rune at the cursor. ok is false once the cursor has
// passed the last slot.
func (s *Session) Expected() (r rune, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cursor >= len(s.slots) {
		return 0, false
	}
	return s.slots[s.cursor].Expected, true
}

// Target returns the practice text.
func (s *Session) Target() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runes := make([]rune, len(s.slots))
	for i, slot := range s.slots {
		runes[i] = slot.Expected
	}
	return string(runes)
}

// Apply feeds one key event into the session. Events on a finished or aborted
// session, backspace at the first slot and abort outside Running are no-ops.
func (s *Session) Apply(ev KeyEvent) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.At.IsZero() {
		ev.At = s.clock.Now()
	}
	if s.state.Terminal() {
		return s.noop(ev.At)
	}
	switch ev.Kind {
	case KeyChar:
		return s.typeRune(ev.Char, ev.At)
	case KeyBackspace:
		return s.erase(ev.At)
	case KeyAbort:
		return s.abort(ev.At)
	default:
		return s.noop(ev.At)
	}
}

func (s *Session) noop(at time.Time) Change {
	return Change{Kind: ChangeNone, Index: s.cursor, State: s.state, At: at}
}

func (s *Session) typeRune(r rune, at time.Time) Change {
	if s.cursor >= len(s.slots) {
		return s.noop(at)
	}
	started := false
	if s.state == NotStarted {
		s.startedAt = at
		s.started = true
		started = true
	}

	idx := s.cursor
	slot := &s.slots[idx]
	matched := r == slot.Expected
	s.keystrokes++
	if !matched {
		s.mistakes++
	}
	change := Change{
		Index:    idx,
		Expected: slot.Expected,
		Typed:    r,
		Matched:  matched,
		Started:  started,
		At:       at,
	}

	if !matched && s.stopOnError {
		s.state = next(s.state, KeyChar, false)
		change.Kind = ChangeRejected
		change.State = s.state
		return change
	}

	if matched {
		slot.Status = Correct
		slot.Typed = 0
	} else {
		slot.Status = Incorrect
		slot.Typed = r
	}
	s.cursor++
	s.state = next(s.state, KeyChar, s.cursor == len(s.slots))
	if s.state == Finished {
		s.endedAt = at
		s.ended = true
	}
	change.Kind = ChangeTyped
	change.State = s.state
	return change
}

func (s *Session) erase(at time.Time) Change {
	if s.cursor == 0 {
		return s.noop(at)
	}
	s.cursor--
	slot := &s.slots[s.cursor]
	expected := slot.Expected
	typed := slot.Typed
	if slot.Status == Correct {
		typed = expected
	}
	slot.Status = Pending
	slot.Typed = 0
	s.state = next(s.state, KeyBackspace, false)
	return Change{
		Kind:     ChangeErased,
		Index:    s.cursor,
		Expected: expected,
		Typed:    typed,
		Matched:  typed == expected,
		State:    s.state,
		At:       at,
	}
}

func (s *Session) abort(at time.Time) Change {
	if s.state != Running {
		return s.noop(at)
	}
	s.state = next(s.state, KeyAbort, false)
	s.endedAt = at
	s.ended = true
	return Change{Kind: ChangeAborted, Index: s.cursor, State: s.state, At: at}
}

// Snapshot is a read-only copy of a session taken at one instant.
type Snapshot struct {
	Slots  []Slot
	Cursor int
	State  State
	// StartedAt and EndedAt hold meaningful values only when HasStart and
	// HasEnd are set.
	StartedAt time.Time
	EndedAt   time.Time
	HasStart  bool
	HasEnd    bool
	// Elapsed is measured up to EndedAt for ended sessions and up to the
	// snapshot time for running ones.
	Elapsed time.Duration
	// Keystrokes counts accepted character keys; Mistakes counts the ones that
	// did not match, including those later erased.
	Keystrokes int
	Mistakes   int
}

// Snapshot copies the session state. now is used for Elapsed while running.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]Slot, len(s.slots))
	copy(slots, s.slots)
	snap := Snapshot{
		Slots:      slots,
		Cursor:     s.cursor,
		State:      s.state,
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
		HasStart:   s.started,
		HasEnd:     s.ended,
		Keystrokes: s.keystrokes,
		Mistakes:   s.mistakes,
	}
	snap.Elapsed = Elapsed(snap, now)
	return snap
}

// Len returns the number of slots.
func (s Snapshot) Len() int {
	return len(s.Slots)
}

// Started reports whether the start time is set.
func (s Snapshot) Started() bool {
	return s.HasStart
}

// Ended reports whether the end time is set.
func (s Snapshot) Ended() bool {
	return s.HasEnd
}

// Target returns the practice text.
func (s Snapshot) Target() string {
	runes := make([]rune, len(s.Slots))
	for i, slot := range s.Slots {
		runes[i] = slot.Expected
	}
	return string(runes)
}

// Progress returns the fraction of slots behind the cursor, in [0, 1].
func (s Snapshot) Progress() float64 {
	if len(s.Slots) == 0 {
		return 0
	}
	return float64(s.Cursor) / float64(len(s.Slots))
}
