// Package tui provides a terminal render sink for vlist: a tcell widget
// that displays the row pool, maps key and mouse input onto the engine's
// selection and gesture semantics, and draws a scroll bar, border and
// empty-state placeholder.
package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ayn2op/vlist"
)

// RowRenderer renders one entity into a single line of text for the given
// width.
type RowRenderer func(e vlist.Entity, width int) string

// horizontalPixelsPerCell converts mouse drag columns into gesture pixels so
// the engine's swipe thresholds stay meaningful on a cell grid.
const horizontalPixelsPerCell = 16

// wheelScrollLines is the scroll distance of one mouse wheel tick.
const wheelScrollLines = 3

// rowSink is the widget-side render handle of one pool row. The engine
// binds it; the widget reads it during Draw.
type rowSink struct {
	bound     bool
	entity    vlist.Entity
	offset    int
	odd       bool
	selected  bool
	translate int
}

func (s *rowSink) Bind(e vlist.Entity, offset int, odd, selected bool) {
	s.bound = true
	s.entity = e
	s.offset = offset
	s.odd = odd
	s.selected = selected
}

func (s *rowSink) Unbind() {
	s.bound = false
	s.entity = nil
	s.translate = 0
}

func (s *rowSink) Translate(dx int) {
	s.translate = dx
}

// Widget displays a vlist inside a bordered rectangle on a tcell screen.
// One engine pixel corresponds to one terminal line, so the engine's
// RowHeight is the number of lines per row.
type Widget struct {
	list   *vlist.List
	render RowRenderer
	theme  Theme
	title  string

	showScrollBar bool

	x, y, width, height int

	sinks        []*rowSink
	emptyVisible bool

	pressed        bool
	pressX, pressY int
}

// NewWidget builds the engine from opts and wires the widget in as its
// render sink. The NewRowSink and EmptyVisible fields of opts are owned by
// the widget; a caller-supplied EmptyVisible is still invoked.
func NewWidget(opts vlist.Options, render RowRenderer) (*Widget, error) {
	w := &Widget{
		render:        render,
		theme:         DefaultTheme,
		showScrollBar: true,
	}
	opts.NewRowSink = func() vlist.RowSink {
		s := &rowSink{}
		w.sinks = append(w.sinks, s)
		return s
	}
	chained := opts.EmptyVisible
	opts.EmptyVisible = func(visible bool) {
		w.emptyVisible = visible
		if chained != nil {
			chained(visible)
		}
	}
	list, err := vlist.NewList(opts)
	if err != nil {
		return nil, err
	}
	w.list = list
	return w, nil
}

// List returns the wrapped engine.
func (w *Widget) List() *vlist.List {
	return w.list
}

// SetTitle sets the text shown on the top border.
func (w *Widget) SetTitle(title string) *Widget {
	w.title = title
	return w
}

// SetTheme sets the widget's colors.
func (w *Widget) SetTheme(theme Theme) *Widget {
	w.theme = theme
	return w
}

// SetShowScrollBar toggles the scroll bar on the right border.
func (w *Widget) SetShowScrollBar(show bool) *Widget {
	w.showScrollBar = show
	return w
}

// SetRect positions the widget. The first rect with a usable inner height
// mounts the engine's row pool; the pool is never resized afterwards.
func (w *Widget) SetRect(x, y, width, height int) {
	w.x, w.y, w.width, w.height = x, y, width, height
	if ih := height - 2; ih > 0 {
		w.list.Mount(ih)
	}
}

// GetRect returns the widget's rectangle.
func (w *Widget) GetRect() (int, int, int, int) {
	return w.x, w.y, w.width, w.height
}

func (w *Widget) innerRect() (int, int, int, int) {
	return w.x + 1, w.y + 1, w.width - 2, w.height - 2
}

// Draw renders the widget onto the screen.
func (w *Widget) Draw(screen tcell.Screen) {
	if w.width <= 2 || w.height <= 2 {
		return
	}
	ix, iy, iw, ih := w.innerRect()
	background := tcell.StyleDefault.Foreground(w.theme.Text).Background(w.theme.Background)
	for dy := 0; dy < ih; dy++ {
		fillLine(screen, ix, iy+dy, iw, background)
	}
	w.drawBorder(screen)

	if w.emptyVisible {
		if msg := w.list.EmptyMessage(); msg != "" {
			style := tcell.StyleDefault.Foreground(w.theme.EmptyTextColor).Background(w.theme.Background)
			printCentered(screen, msg, ix, iy+ih/2, iw, style)
		}
	} else {
		w.drawRows(screen, ix, iy, iw, ih)
	}

	if w.showScrollBar {
		style := tcell.StyleDefault.Foreground(w.theme.ScrollBarColor).Background(w.theme.Background)
		drawScrollBar(screen, w.x+w.width-1, iy, ih,
			w.list.ContentHeight(), ih, w.list.ScrollPosition(), style)
	}
}

func (w *Widget) drawRows(screen tcell.Screen, ix, iy, iw, ih int) {
	rowLines := w.list.RowHeight()
	scroll := w.list.ScrollPosition()
	for _, s := range w.sinks {
		if !s.bound {
			continue
		}
		top := s.offset - scroll
		if top+rowLines <= 0 || top >= ih {
			continue
		}
		style := w.theme.rowStyle(s.odd, s.selected)
		shift := s.translate / horizontalPixelsPerCell
		for line := 0; line < rowLines; line++ {
			sy := top + line
			if sy < 0 || sy >= ih {
				continue
			}
			fillLine(screen, ix, iy+sy, iw, style)
			if line == 0 && w.render != nil {
				text := w.render(s.entity, iw)
				tx := ix + shift
				tw := iw - shift
				if shift < 0 {
					tx = ix
					tw = iw + shift
				}
				if tw > 0 {
					printLine(screen, text, tx, iy+sy, tw, style)
				}
			}
		}
	}
}

func (w *Widget) drawBorder(screen tcell.Screen) {
	style := tcell.StyleDefault.Foreground(w.theme.BorderColor).Background(w.theme.Background)
	x2, y2 := w.x+w.width-1, w.y+w.height-1
	for cx := w.x + 1; cx < x2; cx++ {
		screen.SetContent(cx, w.y, '─', nil, style)
		screen.SetContent(cx, y2, '─', nil, style)
	}
	for cy := w.y + 1; cy < y2; cy++ {
		screen.SetContent(w.x, cy, '│', nil, style)
		screen.SetContent(x2, cy, '│', nil, style)
	}
	screen.SetContent(w.x, w.y, '┌', nil, style)
	screen.SetContent(x2, w.y, '┐', nil, style)
	screen.SetContent(w.x, y2, '└', nil, style)
	screen.SetContent(x2, y2, '┘', nil, style)

	if w.title != "" {
		titleStyle := tcell.StyleDefault.Foreground(w.theme.TitleColor).Background(w.theme.Background)
		printCentered(screen, " "+w.title+" ", w.x+1, w.y, w.width-2, titleStyle)
	}
}

// HandleKey processes a key event and reports whether it was consumed.
func (w *Widget) HandleKey(ev *tcell.EventKey) bool {
	extend := ev.Modifiers()&tcell.ModShift != 0
	_, _, _, ih := w.innerRect()
	switch ev.Key() {
	case tcell.KeyDown:
		w.list.SelectNext(extend)
	case tcell.KeyUp:
		w.list.SelectPrevious(extend)
	case tcell.KeyPgDn:
		w.list.Scroll(w.list.ScrollPosition() + ih)
	case tcell.KeyPgUp:
		w.list.Scroll(w.list.ScrollPosition() - ih)
	case tcell.KeyHome:
		w.list.Scroll(0)
	case tcell.KeyEnd:
		w.list.Scroll(w.list.ContentHeight())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			w.list.SelectNext(extend)
		case 'k':
			w.list.SelectPrevious(extend)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// HandleMouse processes a mouse event and reports whether it was consumed.
// A primary-button drag feeds the swipe recognizer; a release without a
// drag is a click with the platform modifiers deciding the selection
// gesture.
func (w *Widget) HandleMouse(ev *tcell.EventMouse) bool {
	mx, my := ev.Position()
	if !w.inRect(mx, my) && !w.pressed {
		return false
	}
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		w.list.Scroll(w.list.ScrollPosition() - wheelScrollLines)
		return true
	case buttons&tcell.WheelDown != 0:
		w.list.Scroll(w.list.ScrollPosition() + wheelScrollLines)
		return true
	}

	primary := buttons&tcell.Button1 != 0
	sw := w.list.Swipe()
	switch {
	case primary && !w.pressed:
		w.pressed = true
		w.pressX, w.pressY = mx, my
		if sw != nil {
			sw.TouchStart(mx*horizontalPixelsPerCell, w.lineOf(my))
		}
		return true
	case primary && w.pressed:
		if sw != nil {
			sw.TouchMove(mx*horizontalPixelsPerCell, w.lineOf(my))
		}
		return true
	case !primary && w.pressed:
		w.pressed = false
		if sw != nil && sw.Dragging() {
			sw.TouchEnd(mx*horizontalPixelsPerCell, w.lineOf(my))
			return true
		}
		if sw != nil {
			sw.TouchCancel()
		}
		if e := w.entityAt(w.pressX, w.pressY); e != nil {
			mods := ev.Modifiers()
			switch {
			case mods&tcell.ModCtrl != 0:
				w.list.ToggleClick(e)
			case mods&tcell.ModShift != 0:
				w.list.RangeClick(e)
			default:
				w.list.Click(e)
			}
		}
		return true
	}
	return false
}

func (w *Widget) inRect(x, y int) bool {
	return x >= w.x && x < w.x+w.width && y >= w.y && y < w.y+w.height
}

// lineOf converts a screen row into a viewport-relative line.
func (w *Widget) lineOf(my int) int {
	_, iy, _, _ := w.innerRect()
	return my - iy
}

// entityAt returns the entity shown at the given screen position, or nil.
func (w *Widget) entityAt(mx, my int) vlist.Entity {
	ix, _, iw, ih := w.innerRect()
	line := w.lineOf(my)
	if mx < ix || mx >= ix+iw || line < 0 || line >= ih {
		return nil
	}
	index := (w.list.ScrollPosition() + line) / w.list.RowHeight()
	return w.list.Store().At(index)
}
