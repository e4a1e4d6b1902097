package typing

import (
	"iter"
	"slices"
	"time"
)

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5

// Result bundles every metric for one snapshot.
type Result struct {
	State       State
	Elapsed     time.Duration
	Correct     int
	Incorrect   int
	Keystrokes  int
	Mistakes    int
	WPM         float64
	RawWPM      float64
	CPM         float64
	Accuracy    float64
	RawAccuracy float64
	Errors      []int
}

// Elapsed returns the typing time: EndedAt-StartedAt once ended, now-StartedAt
// while running and zero before the first keystroke. It is never negative.
func Elapsed(s Snapshot, now time.Time) time.Duration {
	var d time.Duration
	switch {
	case !s.HasStart:
		return 0
	case s.HasEnd:
		d = s.EndedAt.Sub(s.StartedAt)
	default:
		d = now.Sub(s.StartedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

// Counts returns the number of Correct and Incorrect slots before the cursor.
func Counts(s Snapshot) (correct, incorrect int) {
	for _, slot := range s.Slots[:clampCursor(s)] {
		switch slot.Status {
		case Correct:
			correct++
		case Incorrect:
			incorrect++
		}
	}
	return correct, incorrect
}

// WPM returns words per minute from correct characters, one word being
// CharsPerWord characters. now is only consulted while running.
func WPM(s Snapshot, now time.Time) float64 {
	correct, _ := Counts(s)
	return perMinute(float64(correct)/CharsPerWord, Elapsed(s, now))
}

// RawWPM is WPM counting every typed slot, mistakes included.
func RawWPM(s Snapshot, now time.Time) float64 {
	correct, incorrect := Counts(s)
	return perMinute(float64(correct+incorrect)/CharsPerWord, Elapsed(s, now))
}

// CPM returns correct characters per minute.
func CPM(s Snapshot, now time.Time) float64 {
	correct, _ := Counts(s)
	return perMinute(float64(correct), Elapsed(s, now))
}

// Accuracy returns the share of correct slots among typed slots as a
// percentage. Untyped slots do not count; 0/0 is 100.
func Accuracy(s Snapshot) float64 {
	correct, incorrect := Counts(s)
	return percent(correct, correct+incorrect)
}

// RawAccuracy returns the share of keystrokes that matched, corrected
// mistakes included, as a percentage.
func RawAccuracy(s Snapshot) float64 {
	mistakes := min(s.Mistakes, s.Keystrokes)
	return percent(s.Keystrokes-mistakes, s.Keystrokes)
}

// ErrorPositions yields the indices of Incorrect slots in ascending order.
// The sequence can be ranged over any number of times.
func ErrorPositions(s Snapshot) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, slot := range s.Slots[:clampCursor(s)] {
			if slot.Status != Incorrect {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// Summarize computes all metrics for s.
func Summarize(s Snapshot, now time.Time) Result {
	correct, incorrect := Counts(s)
	return Result{
		State:       s.State,
		Elapsed:     Elapsed(s, now),
		Correct:     correct,
		Incorrect:   incorrect,
		Keystrokes:  s.Keystrokes,
		Mistakes:    s.Mistakes,
		WPM:         WPM(s, now),
		RawWPM:      RawWPM(s, now),
		CPM:         CPM(s, now),
		Accuracy:    Accuracy(s),
		RawAccuracy: RawAccuracy(s),
		Errors:      slices.Collect(ErrorPositions(s)),
	}
}

func perMinute(amount float64, elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes <= 0 || amount <= 0 {
		return 0
	}
	return amount / minutes
}

func percent(part, total int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(part) / float64(total) * 100
}

func clampCursor(s Snapshot) int {
	return max(0, min(s.Cursor, len(s.Slots)))
}
