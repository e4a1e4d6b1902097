package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func plotRows(out string) []string {
	var rows []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, axisGap) {
			rows = append(rows, line)
		}
	}
	return rows
}

func TestPlotSeriesLayout(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{
		{Name: "WPM", Values: []float64{10, 20, 15}},
		{Name: "Accuracy", Values: []float64{90, 95, 100}},
	}
	if err := PlotSeries(&buf, "Trend", series, 5, 4); err != nil {
		t.Fatalf("plot: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Trend\n", plotNote, "WPM: low=10.00 high=20.00", "Accuracy: low=90.00 high=100.00", "Legend:", "WPM (solid)", "Accuracy (dashed)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plot missing %q:\n%s", want, out)
		}
	}
	rows := plotRows(out)
	if len(rows) != 4 {
		t.Fatalf("expected 4 plot rows, got %d:\n%s", len(rows), out)
	}
	if !strings.HasPrefix(rows[0], "high"+axisGap) || !strings.HasPrefix(rows[3], " low"+axisGap) {
		t.Fatalf("unexpected axis labels:\n%s", out)
	}
	for _, row := range rows {
		if n := utf8.RuneCountInString(row); n != 4+utf8.RuneCountInString(axisGap)+minPlotWidth {
			t.Fatalf("row %q has %d runes", row, n)
		}
	}
}

func TestPlotSeriesRising(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "", []Series{{Name: "WPM", Values: []float64{0, 10}}}, 10, 2); err != nil {
		t.Fatalf("plot: %v", err)
	}
	rows := plotRows(buf.String())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	top := []rune(strings.SplitN(rows[0], axisGap, 2)[1])
	bottom := []rune(strings.SplitN(rows[1], axisGap, 2)[1])
	if top[len(top)-1] == braille(0) {
		t.Fatalf("expected the high end in the top right cell: %q", rows[0])
	}
	if bottom[0] == braille(0) {
		t.Fatalf("expected the low end in the bottom left cell: %q", rows[1])
	}
	if top[0] != braille(0) {
		t.Fatalf("expected an empty top left cell: %q", rows[0])
	}
}

func TestPlotSeriesFlatAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "", []Series{{Name: "WPM", Values: []float64{5, 5}}}, 10, 3); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if !strings.Contains(buf.String(), "WPM: low=4.00 high=6.00") {
		t.Fatalf("expected widened range:\n%s", buf.String())
	}

	buf.Reset()
	if err := PlotSeries(&buf, "Trend", []Series{{Name: "WPM"}}, 10, 3); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		in   []float64
		n    int
		want []float64
	}{
		{[]float64{1, 2, 3, 4}, 2, []float64{1.5, 3.5}},
		{[]float64{0, 10}, 3, []float64{0, 5, 10}},
		{[]float64{7}, 3, []float64{7, 7, 7}},
		{[]float64{1, 2}, 2, []float64{1, 2}},
	}
	for _, tt := range tests {
		got := resample(tt.in, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("resample(%v, %d) = %v", tt.in, tt.n, got)
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Fatalf("resample(%v, %d) = %v, want %v", tt.in, tt.n, got, tt.want)
			}
		}
	}
	if resample(nil, 3) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestBrailleCells(t *testing.T) {
	if braille(0) != '\u2800' || braille(0xFF) != '\u28FF' {
		t.Fatalf("unexpected braille range")
	}
	c := newCanvas(1, 1)
	for y := range dotsPerCellY {
		for x := range dotsPerCellX {
			c.set(x, y)
		}
	}
	c.set(5, 0)
	c.set(0, 9)
	if c.cells[0][0] != 0xFF {
		t.Fatalf("expected a full cell, got %#x", c.cells[0][0])
	}
	if valueToRow(10, 0, 10, 8) != 0 || valueToRow(0, 0, 10, 8) != 7 || valueToRow(-5, 0, 10, 8) != 7 {
		t.Fatalf("unexpected row mapping")
	}
}
