package vlist

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// fastScrollGuardRows is how close, in rows, the trailing buffer may get
	// to exhaustion before incremental shifting is abandoned for a full
	// reposition (or deferred mode on the mobile profile).
	fastScrollGuardRows = 5

	// deferredRecheckInterval is how often deferred mode re-examines scroll
	// speed.
	deferredRecheckInterval = 100 * time.Millisecond

	// deferredSettleThreshold is the distance in pixels per recheck interval
	// below which scrolling counts as settled.
	deferredSettleThreshold = 50
)

// Profile selects the repositioning strategy used when a fast scroll exceeds
// the buffer.
type Profile int

const (
	// ProfileDesktop repositions the whole pool immediately.
	ProfileDesktop Profile = iota
	// ProfileMobile defers repositioning until scroll speed settles.
	ProfileMobile
)

// WindowState is the scroll bookkeeping of a window engine.
type WindowState struct {
	ScrollPosition     int
	LastScrollPosition int
	LastUpdate         time.Time
	Deferred           bool
	VisibleHeight      int
	BufferHeight       int
}

// windowEngine computes which pool row shows which store index as the
// viewport scrolls. Incremental O(1) ring slides handle ordinary scrolling;
// a full O(poolSize) reposition is the always-correct fallback.
type windowEngine struct {
	store     *Store
	pool      *RowPool
	rowHeight int
	profile   Profile
	state     WindowState

	pendingScroll  int
	framePending   bool
	lastRecheckPos int
	recheckTimer   *time.Timer

	// frame coalesces scroll passes to one per animation frame.
	frame func(func())
	now   func() time.Time
	// afterFunc schedules the deferred recheck; the callback must run on
	// the owner goroutine.
	afterFunc func(time.Duration, func()) *time.Timer
	// needPage is invoked when the viewport nears the tail of loaded
	// content.
	needPage   func()
	isSelected func(id string) bool

	log zerolog.Logger
}

// attachPool hands the engine its row pool and viewport geometry. The pool
// is computed once per mount and never resized.
func (w *windowEngine) attachPool(pool *RowPool, visibleHeight, bufferHeight int) {
	w.pool = pool
	w.state.VisibleHeight = visibleHeight
	w.state.BufferHeight = bufferHeight
}

// detachPool drops the pool so late completions become no-ops.
func (w *windowEngine) detachPool() {
	w.pool = nil
	w.state = WindowState{}
	if w.recheckTimer != nil {
		w.recheckTimer.Stop()
		w.recheckTimer = nil
	}
}

// maxStart is the highest pixel offset the topmost pool row may take.
func (w *windowEngine) maxStart() int {
	m := w.store.Len()*w.rowHeight - 2*w.state.BufferHeight - w.state.VisibleHeight
	return max(m, 0)
}

// maxScroll is the highest scroll position the loaded content admits.
func (w *windowEngine) maxScroll() int {
	m := w.store.Len()*w.rowHeight - w.state.VisibleHeight
	return max(m, 0)
}

// Reposition recomputes every pool row from the current scroll position. It
// is idempotent and is the fallback of last resort.
func (w *windowEngine) Reposition() {
	if w.pool == nil {
		return
	}
	start := w.state.ScrollPosition - w.state.BufferHeight
	start = min(max(start, 0), w.maxStart())
	first := start / w.rowHeight
	for i := 0; i < w.pool.Len(); i++ {
		w.assign(w.pool.Row(i), first+i)
	}
}

// ScrollTo jumps to a scroll position immediately, bypassing the frame
// throttle, and fully repositions the pool.
func (w *windowEngine) ScrollTo(pos int) {
	if w.pool == nil {
		return
	}
	w.state.LastScrollPosition = w.state.ScrollPosition
	w.state.ScrollPosition = min(max(pos, 0), w.maxScroll())
	w.state.LastUpdate = w.now()
	w.Reposition()
}

// Scroll records a new scroll position and schedules one incremental pass
// for the next frame. Calls between frames coalesce.
func (w *windowEngine) Scroll(pos int) {
	w.pendingScroll = pos
	if w.framePending {
		return
	}
	w.framePending = true
	w.frame(w.scrollFrame)
}

func (w *windowEngine) scrollFrame() {
	w.framePending = false
	if w.pool == nil {
		return
	}
	pos := min(max(w.pendingScroll, 0), w.maxScroll())
	prev := w.state.ScrollPosition
	w.state.LastScrollPosition = prev
	w.state.ScrollPosition = pos
	w.state.LastUpdate = w.now()
	if w.state.Deferred {
		return
	}
	if delta := pos - prev; delta != 0 {
		w.step(pos, delta)
	}
	w.checkNearTail(pos)
}

// step slides rows across the buffer boundary in the scroll direction, or
// bails out to the guard when the trailing buffer is nearly exhausted.
func (w *windowEngine) step(pos, delta int) {
	if w.guardFastScroll(pos, delta) {
		return
	}
	if delta > 0 {
		for w.pool.Head().Offset() < pos-w.state.BufferHeight {
			next := w.pool.Tail().Offset()/w.rowHeight + 1
			w.assign(w.pool.RotateForward(), next)
		}
	} else {
		for w.pool.Tail().Offset()+w.rowHeight > pos+w.state.VisibleHeight+w.state.BufferHeight {
			prev := w.pool.Head().Offset()/w.rowHeight - 1
			if prev < 0 {
				break
			}
			w.assign(w.pool.RotateBackward(), prev)
		}
	}
}

// guardFastScroll reports whether the scroll step was handled by the
// fast-scroll fallback instead of incremental shifting.
func (w *windowEngine) guardFastScroll(pos, delta int) bool {
	guard := fastScrollGuardRows * w.rowHeight
	if delta > 0 {
		remaining := w.pool.Tail().Offset() + w.rowHeight - (pos + w.state.VisibleHeight)
		if remaining >= guard {
			return false
		}
		if w.pool.Tail().Offset()/w.rowHeight >= w.store.Len()-1 {
			return false
		}
	} else {
		if pos-w.pool.Head().Offset() >= guard {
			return false
		}
		if w.pool.Head().Offset() <= 0 {
			return false
		}
	}
	if w.profile == ProfileMobile {
		w.enterDeferred(pos)
		return true
	}
	w.log.Debug().Int("pos", pos).Int("delta", delta).Msg("fast scroll exceeded buffer, repositioning")
	w.Reposition()
	return true
}

func (w *windowEngine) enterDeferred(pos int) {
	w.state.Deferred = true
	w.lastRecheckPos = pos
	w.log.Debug().Int("pos", pos).Msg("deferred repositioning until scroll settles")
	w.scheduleRecheck()
}

func (w *windowEngine) scheduleRecheck() {
	w.recheckTimer = w.afterFunc(deferredRecheckInterval, w.recheckDeferred)
}

func (w *windowEngine) recheckDeferred() {
	if !w.state.Deferred || w.pool == nil {
		return
	}
	pos := w.state.ScrollPosition
	moved := pos - w.lastRecheckPos
	if moved < 0 {
		moved = -moved
	}
	if moved > deferredSettleThreshold {
		w.lastRecheckPos = pos
		w.scheduleRecheck()
		return
	}
	w.state.Deferred = false
	w.Reposition()
	w.checkNearTail(pos)
}

func (w *windowEngine) checkNearTail(pos int) {
	if w.store.Complete() {
		return
	}
	if pos > w.store.Len()*w.rowHeight-2*w.state.VisibleHeight {
		w.needPage()
	}
}

// assign rebinds row to the store index it now covers. An index beyond
// loaded content binds empty; it renders nothing and never fetches.
func (w *windowEngine) assign(row *VirtualRow, index int) {
	if row.sink == nil {
		panic("vlist: pool row has no render sink")
	}
	row.offset = index * w.rowHeight
	e := w.store.At(index)
	row.entity = e
	if e == nil {
		row.sink.Unbind()
		return
	}
	row.sink.Bind(e, row.offset, index%2 == 1, w.isSelected(e.EntityID()))
}
