package tui

import "github.com/gdamore/tcell/v2"

// Theme defines the colors used by the widget.
type Theme struct {
	Background         tcell.Color // Viewport background.
	OddRowBackground   tcell.Color // Background of odd rows (alternating shading).
	Text               tcell.Color // Row text.
	SelectedBackground tcell.Color // Background of selected rows.
	SelectedText       tcell.Color // Text of selected rows.
	BorderColor        tcell.Color // Widget border.
	TitleColor         tcell.Color // Widget title.
	EmptyTextColor     tcell.Color // Empty-state message.
	ScrollBarColor     tcell.Color // Scroll bar thumb and track.
}

// DefaultTheme is the theme widgets start with: a black background with
// subtle alternating shading.
var DefaultTheme = Theme{
	Background:         tcell.ColorBlack,
	OddRowBackground:   tcell.ColorDarkSlateGray,
	Text:               tcell.ColorWhite,
	SelectedBackground: tcell.ColorBlue,
	SelectedText:       tcell.ColorWhite,
	BorderColor:        tcell.ColorWhite,
	TitleColor:         tcell.ColorWhite,
	EmptyTextColor:     tcell.ColorGray,
	ScrollBarColor:     tcell.ColorWhite,
}

func (t Theme) rowStyle(odd, selected bool) tcell.Style {
	switch {
	case selected:
		return tcell.StyleDefault.Foreground(t.SelectedText).Background(t.SelectedBackground)
	case odd:
		return tcell.StyleDefault.Foreground(t.Text).Background(t.OddRowBackground)
	default:
		return tcell.StyleDefault.Foreground(t.Text).Background(t.Background)
	}
}
