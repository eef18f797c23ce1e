package vlist

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultPageSize is the number of entities requested per page.
const DefaultPageSize = 100

// FetchFunc loads up to count entities starting after cursor, in the order
// the configured comparator imposes. It is called off the owner goroutine
// and may block.
type FetchFunc func(ctx context.Context, cursor string, count int) ([]Entity, error)

// PageFlight is the shared future of one page fetch. All callers that
// request a page while it is outstanding receive the same flight.
type PageFlight struct {
	done     chan struct{}
	entities []Entity
	err      error
}

func newPageFlight() *PageFlight {
	return &PageFlight{done: make(chan struct{})}
}

func resolvedPageFlight() *PageFlight {
	f := newPageFlight()
	close(f.done)
	return f
}

func (f *PageFlight) resolve(entities []Entity, err error) {
	f.entities = entities
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed once the page has been fetched and
// applied to the store.
func (f *PageFlight) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the flight completes or ctx is cancelled and returns the
// fetched page.
func (f *PageFlight) Wait(ctx context.Context) ([]Entity, error) {
	select {
	case <-f.done:
		return f.entities, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Paginator fetches pages from the external data source and appends them
// into the store. Fetches are single-flight: a request issued while another
// is outstanding shares the pending flight instead of hitting the source
// again.
type Paginator struct {
	store    *Store
	fetch    FetchFunc
	pageSize int

	// post funnels fetch completions back onto the owner goroutine.
	post func(func())
	// onPage runs on the owner goroutine after a page has been appended.
	onPage func()

	group singleflight.Group

	mu       sync.Mutex
	inflight *PageFlight
	gen      int

	log zerolog.Logger
}

// NewPaginator returns a paginator appending into store. post serializes
// completions onto the store's owner goroutine; onPage, if non-nil, runs
// there after every applied page.
func NewPaginator(store *Store, fetch FetchFunc, pageSize int, post func(func()), onPage func()) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		store:    store,
		fetch:    fetch,
		pageSize: pageSize,
		post:     post,
		onPage:   onPage,
		log:      zerolog.Nop(),
	}
}

// SetLogger sets the logger used for fetch diagnostics.
func (p *Paginator) SetLogger(log zerolog.Logger) *Paginator {
	p.log = log
	return p
}

// Inflight returns the currently outstanding flight, or nil.
func (p *Paginator) Inflight() *PageFlight {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight
}

// Reset abandons any outstanding flight. Its completion still resolves the
// flight for blocked waiters, with an empty page, but no longer touches the
// store.
func (p *Paginator) Reset() {
	p.mu.Lock()
	p.gen++
	p.inflight = nil
	p.mu.Unlock()
}

// FetchNextPage requests the page following the last loaded entity. The
// first request uses [CursorMax] so the source returns its newest page. Once
// the source has returned a short page the store is marked complete and
// further calls resolve immediately without touching the source. Must be
// called on the owner goroutine.
func (p *Paginator) FetchNextPage(ctx context.Context) *PageFlight {
	p.mu.Lock()
	if p.inflight != nil {
		flight := p.inflight
		p.mu.Unlock()
		return flight
	}
	if p.store.Complete() {
		p.mu.Unlock()
		return resolvedPageFlight()
	}
	cursor := CursorMax
	if last := p.store.Last(); last != nil {
		cursor = last.EntityID()
	}
	flight := newPageFlight()
	p.inflight = flight
	gen := p.gen
	p.mu.Unlock()

	go p.run(ctx, cursor, flight, gen)
	return flight
}

func (p *Paginator) run(ctx context.Context, cursor string, flight *PageFlight, gen int) {
	res := <-p.group.DoChan(cursor, func() (any, error) {
		return p.fetch(ctx, cursor, p.pageSize)
	})
	p.post(func() {
		p.mu.Lock()
		stale := gen != p.gen
		if p.inflight == flight {
			p.inflight = nil
		}
		p.mu.Unlock()

		if stale {
			// Reset while the fetch was outstanding: the store moved on.
			flight.resolve(nil, nil)
			return
		}
		if res.Err != nil {
			p.log.Warn().Err(res.Err).Str("cursor", cursor).Msg("page fetch failed")
			flight.resolve(nil, res.Err)
			return
		}
		page, _ := res.Val.([]Entity)
		if len(page) < p.pageSize {
			p.store.SetComplete()
		}
		for _, e := range page {
			p.store.Insert(e)
		}
		p.log.Debug().
			Int("count", len(page)).
			Bool("complete", p.store.Complete()).
			Msg("page applied")
		if p.onPage != nil {
			p.onPage()
		}
		flight.resolve(page, nil)
	})
}
