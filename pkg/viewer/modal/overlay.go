package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter places fg over bg, centered in a w x h screen.
func overlayCenter(bg, fg string, w, h int) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < h {
		bgLines = append(bgLines, "")
	}

	fgLines := strings.Split(fg, "\n")
	fgW := lipgloss.Width(fg)
	x := max(0, (w-fgW)/2)
	y := max(0, (h-len(fgLines))/2)

	overlayAt(bgLines, fgLines, w, x, y, fgW)
	return strings.Join(bgLines, "\n")
}

func overlayAt(bgLines, fgLines []string, w, x, y, fgW int) {
	if fgW <= 0 {
		return
	}
	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		left := ansi.Cut(bgLine, 0, x)
		if n := ansi.StringWidth(left); n < x {
			left += strings.Repeat(" ", x-n)
		}
		right := ""
		if w > x+fgW {
			right = ansi.Cut(bgLine, x+fgW, w)
		}

		fgLine := fgLines[i]
		if n := ansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fgLine = ansi.Cut(fgLine, 0, fgW)
		}

		bgLines[y+i] = left + fgLine + right
	}
}
