package vlist

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// testEntity is the minimal entity used across the engine tests.
type testEntity struct {
	id   string
	list string
}

func (e *testEntity) EntityID() string { return e.id }
func (e *testEntity) ListID() string   { return e.list }

func ent(id string) *testEntity {
	return &testEntity{id: id, list: "inbox"}
}

func ents(ids ...string) []Entity {
	out := make([]Entity, len(ids))
	for i, id := range ids {
		out[i] = ent(id)
	}
	return out
}

func ids(entities []Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.EntityID()
	}
	return out
}

func cmpAsc(a, b Entity) int {
	return strings.Compare(a.EntityID(), b.EntityID())
}

func cmpDesc(a, b Entity) int {
	return strings.Compare(b.EntityID(), a.EntityID())
}

// seqEntities returns n entities with zero-padded ascending identifiers.
func seqEntities(n int) []Entity {
	out := make([]Entity, n)
	for i := range out {
		out[i] = ent(fmt.Sprintf("e%03d", i))
	}
	return out
}

// recordSink captures the bind state of one pool row.
type recordSink struct {
	bound     bool
	entity    Entity
	offset    int
	odd       bool
	selected  bool
	translate int

	binds   int
	unbinds int
}

func (s *recordSink) Bind(e Entity, offset int, odd, selected bool) {
	s.bound = true
	s.entity = e
	s.offset = offset
	s.odd = odd
	s.selected = selected
	s.binds++
}

func (s *recordSink) Unbind() {
	s.bound = false
	s.entity = nil
	s.unbinds++
}

func (s *recordSink) Translate(dx int) {
	s.translate = dx
}

// sliceFetch serves pages from a slice already ordered the way the
// comparator orders entities: the page following a cursor starts right
// after the entity carrying that identifier.
func sliceFetch(source []Entity) FetchFunc {
	return func(_ context.Context, cursor string, count int) ([]Entity, error) {
		start := 0
		if cursor != CursorMax {
			for i, e := range source {
				if e.EntityID() == cursor {
					start = i + 1
					break
				}
			}
		}
		end := min(start+count, len(source))
		return source[start:end], nil
	}
}

// countingFetch wraps fetch and counts invocations.
func countingFetch(fetch FetchFunc) (FetchFunc, func() int) {
	var mu sync.Mutex
	calls := 0
	wrapped := func(ctx context.Context, cursor string, count int) ([]Entity, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return fetch(ctx, cursor, count)
	}
	get := func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
	return wrapped, get
}
