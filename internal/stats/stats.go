// Package stats aggregates session results of one run and renders reports.
package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/ttt/internal/model"
	"github.com/verte-zerg/ttt/internal/typing"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy (as a fraction) from totals.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	} else {
		accuracy = 1
	}
	if durationMs <= 0 {
		return 0, 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / typing.CharsPerWord) / minutes
	cpm = float64(correct) / minutes
	return wpm, cpm, accuracy
}

// NewResult converts a final snapshot into a SessionResult.
func NewResult(snap typing.Snapshot, outcome model.Outcome) model.SessionResult {
	res := typing.Summarize(snap, snap.EndedAt)
	return model.SessionResult{
		StartedAt:   snap.StartedAt,
		EndedAt:     snap.EndedAt,
		Outcome:     outcome,
		Length:      snap.Len(),
		Typed:       snap.Cursor,
		Correct:     res.Correct,
		Incorrect:   res.Incorrect,
		Keystrokes:  res.Keystrokes,
		Mistakes:    res.Mistakes,
		WPM:         res.WPM,
		RawWPM:      res.RawWPM,
		Accuracy:    res.Accuracy,
		RawAccuracy: res.RawAccuracy,
		Duration:    res.Elapsed,
	}
}

// Run collects the results of every session played in one process.
type Run struct {
	Results []model.SessionResult
	chars   map[string]*model.CharAggregate
}

// NewRun returns an empty Run.
func NewRun() *Run {
	return &Run{chars: map[string]*model.CharAggregate{}}
}

// Add records a session and its per-character stats.
func (r *Run) Add(res model.SessionResult, chars []model.CharStats) {
	r.Results = append(r.Results, res)
	for _, cs := range chars {
		agg, ok := r.chars[cs.Char]
		if !ok {
			agg = &model.CharAggregate{Char: cs.Char}
			r.chars[cs.Char] = agg
		}
		agg.Correct += cs.Correct
		agg.Incorrect += cs.Incorrect
		agg.LatencySumMs += cs.LatencySumMs
		agg.LatencyCount += cs.LatencyCount
	}
}

// Len returns the number of recorded sessions.
func (r *Run) Len() int {
	return len(r.Results)
}

// Last returns the most recent result.
func (r *Run) Last() (model.SessionResult, bool) {
	if len(r.Results) == 0 {
		return model.SessionResult{}, false
	}
	return r.Results[len(r.Results)-1], true
}

// Totals returns WPM and accuracy percentage over all sessions combined.
func (r *Run) Totals() (wpm, accuracy float64) {
	var correct, incorrect int
	var durationMs int64
	for _, res := range r.Results {
		correct += res.Correct
		incorrect += res.Incorrect
		durationMs += res.Duration.Milliseconds()
	}
	wpm, _, acc := SessionMetrics(correct, incorrect, durationMs)
	return wpm, acc * 100
}

// CharAggregates returns per-character totals sorted by character.
func (r *Run) CharAggregates() []model.CharAggregate {
	out := make([]model.CharAggregate, 0, len(r.chars))
	for _, agg := range r.chars {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// WeakChars returns the top lowest-accuracy characters seen so far.
func (r *Run) WeakChars(top int) map[rune]struct{} {
	return SelectWeakChars(r.CharAggregates(), top)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
