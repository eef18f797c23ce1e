package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// printLine prints text left-aligned at (x, y), truncated to maxWidth screen
// cells. Widths are measured per grapheme cluster so combining characters
// and wide runes stay aligned. It returns the printed width.
func printLine(screen tcell.Screen, text string, x, y, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	printed := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Runes()
		width := max(uniseg.StringWidth(gr.Str()), 1)
		if printed+width > maxWidth {
			break
		}
		var comb []rune
		if len(cluster) > 1 {
			comb = cluster[1:]
		}
		screen.SetContent(x+printed, y, cluster[0], comb, style)
		// Populate the shadowed cells of wide runes so stale content
		// cannot bleed through.
		for dx := 1; dx < width; dx++ {
			screen.SetContent(x+printed+dx, y, ' ', nil, style)
		}
		printed += width
	}
	return printed
}

// fillLine paints a horizontal run of cells with spaces in the given style.
func fillLine(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for dx := 0; dx < width; dx++ {
		screen.SetContent(x+dx, y, ' ', nil, style)
	}
}

// printCentered prints text centered within [x, x+width).
func printCentered(screen tcell.Screen, text string, x, y, width int, style tcell.Style) {
	tw := uniseg.StringWidth(text)
	if tw > width {
		printLine(screen, text, x, y, width, style)
		return
	}
	printLine(screen, text, x+(width-tw)/2, y, width, style)
}
