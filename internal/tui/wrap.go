// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/ttt/internal/typing"
)

type styledRune struct {
	s         string
	width     int
	isSpace   bool
	isNewline bool
}

// Glyphs for slots that have no visible form of their own.
const (
	wrongSpaceGlyph = '•'
	newlineGlyph    = '↵'
	tabGlyph        = '→'
)

func buildStyledRunes(slots []typing.Slot, cursorIndex int) []styledRune {
	words := findWords(slots)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(slots))
	for i, slot := range slots {
		displayed := slot.Expected
		switch slot.Expected {
		case '\n':
			displayed = newlineGlyph
		case '\t':
			displayed = tabGlyph
		}
		style := pendingStyle
		switch slot.Status {
		case typing.Correct:
			style = correctStyle
		case typing.Incorrect:
			style = incorrectStyle
			if slot.Expected == ' ' {
				displayed = wrongSpaceGlyph
			}
		default:
			if currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:         style.Render(string(displayed)),
			width:     runewidth.RuneWidth(displayed),
			isSpace:   unicode.IsSpace(slot.Expected),
			isNewline: slot.Expected == '\n',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(slots []typing.Slot) []wordRange {
	words := []wordRange{}
	start := -1
	for i, slot := range slots {
		if unicode.IsSpace(slot.Expected) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(slots)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
		if item.isNewline {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, or mid-word when
// a word is wider than the line. Newline slots always end the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(items []styledRune) {
		for _, item := range items {
			out.WriteString(item.s)
		}
		out.WriteRune('\n')
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx+1])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(line)
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		i++
		if item.isNewline {
			flush(line)
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			continue
		}
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
	}
	for _, item := range line {
		out.WriteString(item.s)
	}
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
