package stats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/verte-zerg/ttt/internal/model"
)

const defaultMissedChars = 10

// RenderReport prints the sessions of a run, a summary with trend plots and
// the most-missed characters. width is the output width in columns; zero
// means the width of the terminal on stdout.
func RenderReport(w io.Writer, run *Run, width int) error {
	if run == nil || run.Len() == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded.")
		return err
	}
	if width <= 0 {
		width = terminalWidth()
	}
	if err := renderSessions(w, run); err != nil {
		return err
	}
	if err := renderSummary(w, run, width); err != nil {
		return err
	}
	return renderMissedChars(w, run, defaultMissedChars)
}

func renderSessions(w io.Writer, run *Run) error {
	tbl := newTable([]string{"#", "Outcome", "WPM", "Raw", "Accuracy", "Errors", "Typed", "Time"}, 0, 2, 3, 4, 5, 6, 7)
	for i, res := range run.Results {
		tbl.add(
			fmt.Sprintf("%d", i+1),
			string(res.Outcome),
			fmt.Sprintf("%.1f", res.WPM),
			fmt.Sprintf("%.1f", res.RawWPM),
			fmt.Sprintf("%.2f%%", res.Accuracy),
			fmt.Sprintf("%d", res.Incorrect),
			fmt.Sprintf("%d/%d", res.Typed, res.Length),
			formatDuration(res.Duration),
		)
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	for _, line := range tbl.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderSummary(w io.Writer, run *Run, width int) error {
	bestWPM := 0.0
	wpms := make([]float64, 0, run.Len())
	accs := make([]float64, 0, run.Len())
	finished := 0
	for _, res := range run.Results {
		bestWPM = max(bestWPM, res.WPM)
		wpms = append(wpms, res.WPM)
		accs = append(accs, res.Accuracy)
		if res.Outcome == model.OutcomeFinished {
			finished++
		}
	}
	trend := wpms
	if len(trend) > width {
		trend = trend[len(trend)-width:]
	}
	totalWPM, totalAcc := run.Totals()

	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d finished)", run.Len(), finished),
		fmt.Sprintf("Overall WPM: %.2f", totalWPM),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Overall Accuracy: %.2f%%", totalAcc),
	}
	if len(trend) > 1 {
		lines = append(lines, fmt.Sprintf("WPM trend: [%s]", Sparkline(trend)))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if run.Len() < 2 {
		return nil
	}
	return PlotSeries(w, "Per-session trend", []Series{
		{Name: "WPM", Values: wpms},
		{Name: "Accuracy", Values: accs},
	}, PlotWidthFor(width), defaultPlotHeight)
}

func renderMissedChars(w io.Writer, run *Run, limit int) error {
	aggs := run.CharAggregates()
	missed := aggs[:0]
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			missed = append(missed, agg)
		}
	}
	if len(missed) == 0 {
		return nil
	}
	sort.SliceStable(missed, func(i, j int) bool {
		return charAccuracy(missed[i]) < charAccuracy(missed[j])
	})
	if len(missed) > limit {
		missed = missed[:limit]
	}

	tbl := newTable([]string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}, 1, 2, 3, 4)
	for _, agg := range missed {
		tbl.add(
			charLabel(agg.Char),
			fmt.Sprintf("%.2f%%", charAccuracy(agg)*100),
			fmt.Sprintf("%.1f", avgLatency(agg)),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		)
	}
	if _, err := fmt.Fprintln(w, "Most Missed Characters"); err != nil {
		return err
	}
	for _, line := range tbl.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func charLabel(ch string) string {
	switch ch {
	case "\n":
		return "<enter>"
	case "\t":
		return "<tab>"
	default:
		return ch
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
