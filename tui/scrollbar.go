package tui

import "github.com/gdamore/tcell/v2"

// Thumb glyphs in 1/8-cell steps, anchored to the bottom of the cell.
var thumbLower = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const subcell = 8

// drawScrollBar renders a vertical scroll bar in the column at x, rows
// [y, y+height). contentLen and viewportLen are in logical lines; pos is the
// current scroll position. The thumb is sized and placed with 1/8-cell
// resolution.
func drawScrollBar(screen tcell.Screen, x, y, height, contentLen, viewportLen, pos int, style tcell.Style) {
	if height <= 0 || contentLen <= 0 || viewportLen <= 0 {
		return
	}
	for dy := 0; dy < height; dy++ {
		screen.SetContent(x, y+dy, '│', nil, style)
	}
	if contentLen <= viewportLen {
		return
	}

	track := height * subcell
	thumb := max(viewportLen*track/contentLen, subcell/2)
	maxPos := contentLen - viewportLen
	start := min(pos, maxPos) * (track - thumb) / maxPos

	// Whole cells covered by the thumb get the full block; the leading
	// partial cell gets a fractional glyph anchored to its bottom.
	firstCell := start / subcell
	lastCell := (start + thumb - 1) / subcell
	for cell := firstCell; cell <= lastCell && cell < height; cell++ {
		r := thumbLower[subcell-1]
		if cell == firstCell {
			frac := min((cell+1)*subcell-start, subcell)
			r = thumbLower[frac-1]
		}
		screen.SetContent(x, y+cell, r, nil, style)
	}
}
