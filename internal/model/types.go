// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang        string
	TextPath    string
	DictPath    string
	Words       int
	Seconds     int
	CapsPct     float64
	PunctPct    float64
	PunctSet    string
	StopOnError bool
	Watch       bool
	FocusWeak   bool
	WeakTop     int
	WeakFactor  float64
}

// TimeLimit returns the session time limit, zero when unlimited.
func (c Config) TimeLimit() time.Duration {
	if c.Seconds <= 0 {
		return 0
	}
	return time.Duration(c.Seconds) * time.Second
}

// Outcome says how a session ended.
type Outcome string

// Session outcomes.
const (
	OutcomeFinished Outcome = "finished"
	OutcomeAborted  Outcome = "aborted"
	OutcomeTimedOut Outcome = "timed out"
)

// SessionResult captures the final metrics of one session.
type SessionResult struct {
	StartedAt   time.Time
	EndedAt     time.Time
	Outcome     Outcome
	Length      int
	Typed       int
	Correct     int
	Incorrect   int
	Keystrokes  int
	Mistakes    int
	WPM         float64
	RawWPM      float64
	Accuracy    float64
	RawAccuracy float64
	Duration    time.Duration
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}
