package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/ttt/internal/model"
	"github.com/verte-zerg/ttt/internal/typing"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func playSession(t *testing.T, target, keys string, step time.Duration) (typing.Snapshot, *Tracker) {
	t.Helper()
	s, err := typing.New(target)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	tracker := NewTracker()
	at := epoch
	for _, r := range keys {
		at = at.Add(step)
		ev := typing.Char(r, at)
		if r == '<' {
			ev = typing.Backspace(at)
		}
		tracker.Record(s.Apply(ev))
	}
	return s.Snapshot(at), tracker
}

func TestSessionMetrics(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(50, 10, 60000)
	if wpm != 10 || cpm != 50 {
		t.Fatalf("unexpected wpm/cpm: %v %v", wpm, cpm)
	}
	if math.Abs(acc-50.0/60.0) > 1e-9 {
		t.Fatalf("unexpected accuracy: %v", acc)
	}
	wpm, _, acc = SessionMetrics(0, 0, 0)
	if wpm != 0 || acc != 1 {
		t.Fatalf("expected zero wpm and full accuracy, got %v %v", wpm, acc)
	}
}

func TestTrackerCountsKeystrokes(t *testing.T) {
	_, tracker := playSession(t, "ab ab", "ax<b ab", 100*time.Millisecond)
	stats := tracker.CharStats()
	if len(stats) != 2 {
		t.Fatalf("expected stats for a and b only, got %+v", stats)
	}
	a, b := stats[0], stats[1]
	if a.Char != "a" || a.Correct != 2 || a.Incorrect != 0 {
		t.Fatalf("unexpected a stats: %+v", a)
	}
	if b.Char != "b" || b.Correct != 2 || b.Incorrect != 1 {
		t.Fatalf("unexpected b stats: %+v", b)
	}
	// Latency runs between consecutive correct keys: the first b spans the
	// mistake and the erase (300ms), the last one follows a by 100ms.
	if b.LatencyCount != 2 || b.LatencySumMs != 400 {
		t.Fatalf("unexpected b latency: %+v", b)
	}

	tracker.Reset()
	if len(tracker.CharStats()) != 0 {
		t.Fatalf("expected empty tracker after reset")
	}
}

func TestTrackerRecordsRejectedKeys(t *testing.T) {
	s, err := typing.New("ab", typing.WithStopOnError(true))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	tracker := NewTracker()
	tracker.Record(s.Apply(typing.Char('x', epoch)))
	tracker.Record(s.Apply(typing.Abort(epoch.Add(time.Second))))

	stats := tracker.CharStats()
	if len(stats) != 1 || stats[0].Char != "a" || stats[0].Incorrect != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTrackerLatencyFromZeroTime(t *testing.T) {
	tracker := NewTracker()
	var start time.Time
	tracker.Record(typing.Change{Kind: typing.ChangeTyped, Expected: 'a', Matched: true, At: start})
	tracker.Record(typing.Change{Kind: typing.ChangeTyped, Expected: 'b', Matched: true, At: start.Add(150 * time.Millisecond)})

	stats := tracker.CharStats()
	if len(stats) != 2 || stats[1].LatencyCount != 1 || stats[1].LatencySumMs != 150 {
		t.Fatalf("expected one 150ms latency for b, got %+v", stats)
	}
}

func TestNewResult(t *testing.T) {
	snap, _ := playSession(t, "cat", "cax", 10*time.Second)
	res := NewResult(snap, model.OutcomeFinished)
	if res.Outcome != model.OutcomeFinished || res.Length != 3 || res.Typed != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Correct != 2 || res.Incorrect != 1 || res.Duration != 20*time.Second {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if math.Abs(res.WPM-1.2) > 1e-9 {
		t.Fatalf("unexpected wpm: %v", res.WPM)
	}
}

func TestRunAggregates(t *testing.T) {
	run := NewRun()
	if _, ok := run.Last(); ok {
		t.Fatalf("expected no last result")
	}
	run.Add(model.SessionResult{Correct: 50, Incorrect: 0, Duration: time.Minute, WPM: 10}, []model.CharStats{
		{Char: "a", Correct: 5, Incorrect: 1},
	})
	run.Add(model.SessionResult{Correct: 50, Incorrect: 100, Duration: time.Minute, WPM: 10}, []model.CharStats{
		{Char: "a", Correct: 1, Incorrect: 3},
		{Char: "b", Correct: 4},
	})
	if run.Len() != 2 {
		t.Fatalf("expected 2 results")
	}
	wpm, acc := run.Totals()
	if wpm != 10 || math.Abs(acc-50) > 1e-9 {
		t.Fatalf("unexpected totals: %v %v", wpm, acc)
	}
	aggs := run.CharAggregates()
	if len(aggs) != 2 || aggs[0].Char != "a" || aggs[0].Correct != 6 || aggs[0].Incorrect != 4 {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}
	weak := run.WeakChars(5)
	if _, ok := weak['a']; !ok || len(weak) != 1 {
		t.Fatalf("expected only a to be weak, got %v", weak)
	}
}

func TestSelectWeakCharsOrder(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1},
		{Char: "b", Correct: 1, Incorrect: 9},
		{Char: "c", Correct: 5, Incorrect: 5},
		{Char: "d", Correct: 3},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	for _, r := range []rune{'b', 'c'} {
		if _, ok := weak[r]; !ok {
			t.Fatalf("expected %q in weak set %v", r, weak)
		}
	}
	if got := SelectWeakChars(aggs, 0); len(got) != 3 {
		t.Fatalf("expected all mistyped chars without limit, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderReport(t *testing.T) {
	snap, tracker := playSession(t, "cat", "cax", 10*time.Second)
	run := NewRun()
	run.Add(NewResult(snap, model.OutcomeFinished), tracker.CharStats())
	run.Add(model.SessionResult{Outcome: model.OutcomeAborted, Length: 10, Typed: 4, Correct: 4, Duration: 5 * time.Second, WPM: 9.6}, nil)

	var buf bytes.Buffer
	if err := RenderReport(&buf, run, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions", "finished", "aborted", "3/3", "4/10", "Summary", "Sessions: 2 (1 finished)", "Best WPM: 9.60", "WPM trend:", "Per-session trend", "Legend:", "Most Missed Characters", "t "} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, NewRun(), 0); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions recorded.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
