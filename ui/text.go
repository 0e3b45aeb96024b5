package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const ellipsis = "…"

// truncate shortens s to at most width terminal cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// cell truncates s and pads it with spaces to exactly width cells.
func cell(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// wrap word-wraps s to width cells. A non-positive width leaves s as is.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return strings.TrimRight(wordwrap.String(s, width), "\n")
}
