package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Series is one named line of a trend plot, one value per session.
type Series struct {
	Name   string
	Values []float64
}

// dash describes how a trace is stroked: a dot is drawn at x when
// x%period < on.
type dash struct {
	name   string
	period int
	on     int
}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	return abs(x)%d.period < d.on
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	fallbackWidth     = 80
	axisTop           = "high"
	axisBottom        = "low"
	axisGap           = " │ "
	plotNote          = "Each line is scaled to its own range."
	dotsPerCellX      = 2
	dotsPerCellY      = 4
)

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var traceColors = []lipgloss.Color{"#C89A3A", "#5FAFD7", "#87AF5F"}

// PlotWidthFor returns how many plot cells fit beside the axis in
// totalWidth columns. Unknown widths get the minimum.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axis := utf8.RuneCountInString(axisTop) + utf8.RuneCountInString(axisGap)
	return max(totalWidth-axis, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// PlotSeries draws series as braille line charts sharing one grid of width
// cells by height rows. Colors are used only when w is a color terminal.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	width = max(width, minPlotWidth)
	traces := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			traces = append(traces, Series{Name: s.Name, Values: resample(s.Values, width)})
		}
	}
	if len(traces) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}

	renderer := lipgloss.NewRenderer(w)
	styles := make([]lipgloss.Style, len(traces))
	for i := range traces {
		styles[i] = renderer.NewStyle().Foreground(traceColors[i%len(traceColors)])
	}

	grids := make([]*canvas, len(traces))
	var out strings.Builder
	if title != "" {
		out.WriteString(title + "\n")
	}
	out.WriteString(plotNote + "\n")
	for i, tr := range traces {
		lo, hi := valueRange(tr.Values)
		fmt.Fprintf(&out, "%s: low=%.2f high=%.2f\n", tr.Name, lo, hi)
		grids[i] = newCanvas(width, height)
		grids[i].trace(tr.Values, lo, hi, dashes[i%len(dashes)])
	}

	labelWidth := utf8.RuneCountInString(axisTop)
	for y := range height {
		label := ""
		switch y {
		case 0:
			label = axisTop
		case height - 1:
			label = axisBottom
		}
		fmt.Fprintf(&out, "%*s%s", labelWidth, label, axisGap)
		for x := range width {
			mask, owner := mergeCell(grids, x, y)
			cell := string(braille(mask))
			if owner >= 0 {
				cell = styles[owner].Render(cell)
			}
			out.WriteString(cell)
		}
		out.WriteString("\n")
	}

	legend := make([]string, len(traces))
	for i, tr := range traces {
		legend[i] = styles[i].Render(fmt.Sprintf("%c %s (%s)", braille(0x01), tr.Name, dashes[i%len(dashes)].name))
	}
	out.WriteString("Legend: " + strings.Join(legend, "  ") + "\n\n")

	_, err := io.WriteString(w, out.String())
	return err
}

// canvas holds braille dot masks, one byte per character cell.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) dotRows() int {
	return len(c.cells) * dotsPerCellY
}

// trace plots values, one per cell column, joining neighbours with lines.
func (c *canvas) trace(values []float64, lo, hi float64, d dash) {
	prevX, prevY := -1, -1
	for i, v := range values {
		x, y := i*dotsPerCellX, valueToRow(v, lo, hi, c.dotRows())
		if prevX < 0 {
			if d.draws(x) {
				c.set(x, y)
			}
		} else {
			bresenham(prevX, prevY, x, y, func(px, py int) {
				if d.draws(px) {
					c.set(px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

func (c *canvas) set(x, y int) {
	row, col := y/dotsPerCellY, x/dotsPerCellX
	if x < 0 || y < 0 || row >= len(c.cells) || col >= len(c.cells[row]) {
		return
	}
	c.cells[row][col] |= dotMask(x%dotsPerCellX, y%dotsPerCellY)
}

// mergeCell ORs the cell at (x, y) across canvases. owner is the first
// canvas with a dot there, or -1.
func mergeCell(grids []*canvas, x, y int) (mask uint8, owner int) {
	owner = -1
	for i, g := range grids {
		if m := g.cells[y][x]; m != 0 {
			mask |= m
			if owner < 0 {
				owner = i
			}
		}
	}
	return mask, owner
}

// resample stretches or shrinks values to exactly n points: bucket means
// when shrinking, linear interpolation when stretching.
func resample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(len(values)-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * step
			idx := min(int(pos), len(values)-2)
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// valueRange returns the bounds of values, widened by one on each side when
// the series is flat.
func valueRange(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

// valueToRow maps v onto dot rows, with hi at row zero.
func valueToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 || hi <= lo {
		return 0
	}
	row := int(math.Round((hi - v) / (hi - lo) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

// bresenham walks the segment from (x0, y0) to (x1, y1).
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// dotMask returns the braille bit for dot column x (0-1) and row y (0-3).
func dotMask(x, y int) uint8 {
	if x == 0 {
		return [4]uint8{0x01, 0x02, 0x04, 0x40}[y]
	}
	return [4]uint8{0x08, 0x10, 0x20, 0x80}[y]
}

func braille(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
