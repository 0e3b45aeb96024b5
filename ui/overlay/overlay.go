package overlay

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// PlaceOverlay draws fg centered on top of bg, which is treated as a
// width x height screen. Background cells to the right of the overlay on the
// covered rows are dropped.
func PlaceOverlay(fg, bg string, width, height int) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	fgWidth := 0
	for _, line := range fgLines {
		if w := ansi.PrintableRuneWidth(line); w > fgWidth {
			fgWidth = w
		}
	}

	x := max(0, (width-fgWidth)/2)
	y := max(0, (height-len(fgLines))/2)

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			bgLines = append(bgLines, "")
		}
		left := truncate.String(bgLines[row], uint(x))
		if pad := x - ansi.PrintableRuneWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		// Reset any style left open by the cut background.
		bgLines[row] = left + "\x1b[0m" + line
	}
	return strings.Join(bgLines, "\n")
}
