package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/ttt/internal/model"
	"github.com/verte-zerg/ttt/internal/typing"
)

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Tracker accumulates per-character keystroke stats for one session. Spaces
// are not tracked. Latency is the time between consecutive correct keys.
type Tracker struct {
	chars         map[rune]*charStat
	prevCorrectAt time.Time
	hasPrev       bool
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{chars: map[rune]*charStat{}}
}

// Record updates the stats from one engine change. Only typed and rejected
// keys count; erasures leave earlier keystrokes on record.
func (t *Tracker) Record(c typing.Change) {
	if c.Kind != typing.ChangeTyped && c.Kind != typing.ChangeRejected {
		return
	}
	if c.Expected == ' ' {
		return
	}
	entry := t.entry(c.Expected)
	if !c.Matched {
		entry.incorrect++
		return
	}
	entry.correct++
	if t.hasPrev {
		if delta := c.At.Sub(t.prevCorrectAt); delta >= 0 {
			entry.latencySumMs += delta.Milliseconds()
			entry.latencyCount++
		}
	}
	t.prevCorrectAt = c.At
	t.hasPrev = true
}

func (t *Tracker) entry(expected rune) *charStat {
	entry, ok := t.chars[expected]
	if !ok {
		entry = &charStat{}
		t.chars[expected] = entry
	}
	return entry
}

// CharStats returns the recorded stats sorted by character.
func (t *Tracker) CharStats() []model.CharStats {
	out := make([]model.CharStats, 0, len(t.chars))
	for ch, entry := range t.chars {
		out = append(out, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// Reset clears the tracker for a new session.
func (t *Tracker) Reset() {
	t.chars = map[rune]*charStat{}
	t.prevCorrectAt = time.Time{}
	t.hasPrev = false
}
