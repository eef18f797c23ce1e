package vlist

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBufferRows is the number of extra rows held above and below the
// visible viewport to absorb fast scrolling.
const DefaultBufferRows = 10

// Options is the configuration surface of a List. RowHeight, Fetch, Compare
// and NewRowSink are required.
type Options struct {
	// ListID identifies the list partition this instance displays. Entity
	// events for other partitions are ignored.
	ListID string

	// RowHeight is the fixed height of one row in pixels.
	RowHeight int

	// BufferRows is the number of extra rows above and below the viewport.
	// Zero selects DefaultBufferRows.
	BufferRows int

	// PageSize is the fixed page fetch size. Zero selects DefaultPageSize.
	PageSize int

	// Fetch loads the page following the given cursor.
	Fetch FetchFunc

	// LoadSingle loads one entity by identifier. It backs CRUD
	// reconciliation; nil disables create/update reconciliation.
	LoadSingle func(ctx context.Context, id string) (Entity, error)

	// Compare is the total order shared by the loaded and selected
	// sequences.
	Compare Compare

	// Selected is invoked on every selection change.
	Selected SelectedFunc

	// NewRowSink creates the render handle of one pool row.
	NewRowSink func() RowSink

	// EmptyVisible toggles the externally owned empty-state placeholder.
	EmptyVisible func(visible bool)

	// EmptyMessage is the text the render layer shows while the list is
	// empty.
	EmptyMessage string

	// Swipe enables the swipe gesture recognizer.
	Swipe *SwipeConfig

	// SwipeActionDistance overrides DefaultSwipeActionDistance.
	SwipeActionDistance int

	MultiSelectionAllowed bool
	ElementsDraggable     bool

	// Profile selects the fast-scroll fallback strategy.
	Profile Profile

	// Post funnels asynchronous completions (page fetches, single-entity
	// loads, the deferred-reposition timer) back onto the goroutine that
	// owns the list, in the manner of an application's update queue. Nil
	// runs completions directly on the completing goroutine; that is only
	// safe when the embedder serializes all list access itself.
	Post func(func())
}

func (o *Options) validate() error {
	if o.RowHeight <= 0 {
		return fmt.Errorf("%w: row height must be positive, got %d", ErrInvalidOptions, o.RowHeight)
	}
	if o.Fetch == nil {
		return fmt.Errorf("%w: a fetch function is required", ErrInvalidOptions)
	}
	if o.Compare == nil {
		return fmt.Errorf("%w: a comparator is required", ErrInvalidOptions)
	}
	if o.NewRowSink == nil {
		return fmt.Errorf("%w: a row sink factory is required", ErrInvalidOptions)
	}
	if o.BufferRows <= 0 {
		o.BufferRows = DefaultBufferRows
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	return nil
}

// List renders an arbitrarily large, server-paginated collection inside a
// fixed-height scrollable viewport while keeping the number of live rows
// constant. All methods except the documented blocking entry points must be
// called on the goroutine that owns the list.
type List struct {
	opts Options

	store     *Store
	paginator *Paginator
	window    *windowEngine
	selection *selectionModel
	swipe     *SwipeController

	mounted         bool
	pendingSelectID string
	pendingEvents   []EntityEvent
	drainScheduled  bool
	emptyShown      bool

	log zerolog.Logger
}

// NewList returns an unmounted list. The row pool is created once the
// viewport height is known, via Mount.
func NewList(opts Options) (*List, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	l := &List{
		opts: opts,
		log:  zerolog.Nop(),
	}
	l.store = NewStore(opts.Compare)
	l.paginator = NewPaginator(l.store, opts.Fetch, opts.PageSize, l.run, l.pageApplied)
	l.window = &windowEngine{
		store:      l.store,
		rowHeight:  opts.RowHeight,
		profile:    opts.Profile,
		frame:      func(fn func()) { fn() },
		now:        time.Now,
		needPage:   l.needPage,
		isSelected: func(id string) bool { return l.store.IsSelected(id) },
		log:        zerolog.Nop(),
	}
	l.window.afterFunc = func(d time.Duration, fn func()) *time.Timer {
		return time.AfterFunc(d, func() { l.run(fn) })
	}
	l.selection = &selectionModel{
		store:   l.store,
		multi:   opts.MultiSelectionAllowed,
		notify:  l.notifySelected,
		repaint: l.window.Reposition,
	}
	if opts.Swipe != nil {
		l.swipe = NewSwipeController(*opts.Swipe, opts.RowHeight, opts.SwipeActionDistance, l.rowAt)
	}
	return l, nil
}

// SetLogger sets the logger shared by the list's components.
func (l *List) SetLogger(log zerolog.Logger) *List {
	l.log = log
	l.store.SetLogger(log)
	l.paginator.SetLogger(log)
	l.window.log = log
	if l.swipe != nil {
		l.swipe.SetLogger(log)
	}
	return l
}

// Mount creates the row pool for a viewport of the given pixel height. The
// pool is computed once; subsequent calls are no-ops for the lifetime of the
// mount.
func (l *List) Mount(viewportHeight int) {
	if l.mounted || viewportHeight <= 0 {
		return
	}
	viewportRows := (viewportHeight + l.opts.RowHeight - 1) / l.opts.RowHeight
	pool := NewRowPool(PoolSize(viewportRows, l.opts.BufferRows), l.opts.NewRowSink)
	l.window.attachPool(pool, viewportRows*l.opts.RowHeight, l.opts.BufferRows*l.opts.RowHeight)
	l.mounted = true
	l.window.Reposition()
	l.updateEmpty()
}

// Teardown discards the pool and resets the list. Completions of fetches
// still outstanding resolve without touching the store, so a remount starts
// from a clean slate.
func (l *List) Teardown() {
	l.paginator.Reset()
	l.window.detachPool()
	l.store.Clear()
	l.pendingSelectID = ""
	l.pendingEvents = nil
	l.emptyShown = false
	l.mounted = false
	if l.swipe != nil {
		l.swipe.TouchCancel()
	}
}

// Mounted reports whether the row pool exists.
func (l *List) Mounted() bool {
	return l.mounted
}

// Pool returns the row pool, or nil before Mount.
func (l *List) Pool() *RowPool {
	return l.window.pool
}

// Store returns the entity store.
func (l *List) Store() *Store {
	return l.store
}

// Swipe returns the swipe controller, or nil when no swipe actions are
// configured.
func (l *List) Swipe() *SwipeController {
	return l.swipe
}

// EmptyMessage returns the configured empty-state text.
func (l *List) EmptyMessage() string {
	return l.opts.EmptyMessage
}

// ElementsDraggable reports whether the embedder declared rows draggable.
func (l *List) ElementsDraggable() bool {
	return l.opts.ElementsDraggable
}

// ScrollPosition returns the current scroll position in pixels.
func (l *List) ScrollPosition() int {
	return l.window.state.ScrollPosition
}

// RowHeight returns the fixed row height in pixels.
func (l *List) RowHeight() int {
	return l.opts.RowHeight
}

// VisibleHeight returns the viewport height in pixels, zero before Mount.
func (l *List) VisibleHeight() int {
	return l.window.state.VisibleHeight
}

// ContentHeight returns the pixel height of all loaded rows.
func (l *List) ContentHeight() int {
	return l.store.Len() * l.opts.RowHeight
}

// LoadInitial fetches the first page and, when id is non-empty, scrolls to
// and selects that entity, paging forward until it is found or the source is
// exhausted. It blocks and must not be called from the goroutine that drains
// Post; all list state is only touched on that goroutine.
func (l *List) LoadInitial(ctx context.Context, id string) error {
	var flight *PageFlight
	l.call(func() { flight = l.paginator.FetchNextPage(ctx) })
	if _, err := flight.Wait(ctx); err != nil {
		return err
	}
	if id == "" {
		return nil
	}
	_, err := l.ScrollToIDAndSelect(ctx, id)
	return err
}

// ScrollToIDAndSelect scrolls to and selects the entity with the given
// identifier, fetching further pages as needed. It returns nil without error
// when the source is exhausted before the entity appears. It blocks and must
// not be called from the goroutine that drains Post; all list state is only
// touched on that goroutine.
func (l *List) ScrollToIDAndSelect(ctx context.Context, id string) (Entity, error) {
	for {
		var (
			found    Entity
			complete bool
			flight   *PageFlight
		)
		l.call(func() {
			if found = l.store.FindByID(id); found != nil {
				l.scrollToEntity(found)
				l.selectProgrammatic(found)
				return
			}
			if l.store.Complete() {
				complete = true
				return
			}
			flight = l.paginator.FetchNextPage(ctx)
		})
		switch {
		case found != nil:
			return found, nil
		case complete:
			return nil, nil
		}
		if _, err := flight.Wait(ctx); err != nil {
			return nil, err
		}
	}
}

// ScrollToIDAndSelectWhenReceived arms a one-shot target: when a CREATE
// event for the identifier is reconciled into the store, the list scrolls to
// and selects it.
func (l *List) ScrollToIDAndSelectWhenReceived(id string) {
	l.pendingSelectID = id
}

// SelectNext moves the selection one entity forward; with extend it grows
// (or shrinks) a range selection instead.
func (l *List) SelectNext(extend bool) {
	l.selection.SelectNext(extend)
}

// SelectPrevious moves the selection one entity backward; with extend it
// grows (or shrinks) a range selection instead.
func (l *List) SelectPrevious(extend bool) {
	l.selection.SelectPrevious(extend)
}

// Click applies plain-click selection semantics to e.
func (l *List) Click(e Entity) {
	l.selection.Click(e)
}

// ToggleClick applies toggle-modifier click semantics to e.
func (l *List) ToggleClick(e Entity) {
	l.selection.ToggleClick(e)
}

// RangeClick applies range-modifier click semantics to e.
func (l *List) RangeClick(e Entity) {
	l.selection.RangeClick(e)
}

// GetSelectedEntities returns a defensive copy of the selection in sort
// order.
func (l *List) GetSelectedEntities() []Entity {
	return l.store.Selected()
}

// Scroll reports a new scroll position in pixels. Repaint work is coalesced
// to one pass per frame.
func (l *List) Scroll(pos int) {
	l.window.Scroll(pos)
}

// Redraw fully repositions the pool and refreshes the empty-state toggle.
func (l *List) Redraw() {
	l.window.Reposition()
	l.updateEmpty()
}

// rowAt maps a viewport-relative vertical pixel offset onto the pool row
// currently covering it.
func (l *List) rowAt(y int) *VirtualRow {
	pool := l.window.pool
	if pool == nil {
		return nil
	}
	index := (l.window.state.ScrollPosition + y) / l.opts.RowHeight
	for i := 0; i < pool.Len(); i++ {
		row := pool.Row(i)
		if row.Offset()/l.opts.RowHeight == index {
			return row
		}
	}
	return nil
}

// run executes fn through the configured Post hook, or directly when none
// is set.
func (l *List) run(fn func()) {
	if l.opts.Post != nil {
		l.opts.Post(fn)
		return
	}
	fn()
}

// call runs fn on the owner goroutine and blocks until it has returned. The
// blocking entry points use it so store reads never race page appends or
// reconciliation.
func (l *List) call(fn func()) {
	if l.opts.Post == nil {
		fn()
		return
	}
	done := make(chan struct{})
	l.opts.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}

// pageApplied runs on the owner goroutine after the paginator appended a
// page.
func (l *List) pageApplied() {
	l.window.Reposition()
	l.updateEmpty()
	l.drainEvents()
}

// needPage is the window engine's near-tail pagination trigger.
func (l *List) needPage() {
	if l.store.Complete() || l.paginator.Inflight() != nil {
		return
	}
	l.paginator.FetchNextPage(context.Background())
}

func (l *List) scrollToEntity(e Entity) {
	idx := l.store.IndexByID(e.EntityID())
	if idx < 0 {
		return
	}
	pos := idx*l.opts.RowHeight - (l.window.state.VisibleHeight-l.opts.RowHeight)/2
	l.window.ScrollTo(pos)
}

// selectProgrammatic selects e without marking the change user-initiated.
func (l *List) selectProgrammatic(e Entity) {
	if l.store.SelectedLen() == 1 && l.store.IsSelected(e.EntityID()) {
		return
	}
	l.store.SelectOnly(e)
	l.window.Reposition()
	l.notifySelected(false, true, false)
}

func (l *List) notifySelected(explicit, changed, multi bool) {
	if l.opts.Selected == nil {
		return
	}
	l.opts.Selected(l.store.Selected(), explicit, changed, multi)
}

func (l *List) updateEmpty() {
	if l.opts.EmptyVisible == nil {
		return
	}
	visible := l.store.Len() == 0 && l.store.Complete()
	if visible == l.emptyShown {
		return
	}
	l.emptyShown = visible
	l.opts.EmptyVisible(visible)
}
