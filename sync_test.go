package vlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncFixture drives a List whose asynchronous completions are funneled into
// a queue the test drains explicitly, so every reconciliation step runs on
// the test goroutine.
type syncFixture struct {
	list   *List
	queue  chan func()
	events []selectionEvent
	empty  []bool
	single map[string]Entity
}

func newSyncFixture(t *testing.T, source []Entity) *syncFixture {
	t.Helper()
	f := &syncFixture{
		queue:  make(chan func(), 16),
		single: make(map[string]Entity),
	}
	list, err := NewList(Options{
		ListID:     "inbox",
		RowHeight:  10,
		BufferRows: 1,
		PageSize:   10,
		Fetch:      sliceFetch(source),
		LoadSingle: func(_ context.Context, id string) (Entity, error) {
			e, ok := f.single[id]
			if !ok {
				return nil, errors.New("no such entity")
			}
			return e, nil
		},
		Compare: cmpAsc,
		Selected: func(selection []Entity, explicit, changed, multi bool) {
			f.events = append(f.events, selectionEvent{
				ids:      ids(selection),
				explicit: explicit,
				changed:  changed,
				multi:    multi,
			})
		},
		NewRowSink:            func() RowSink { return &recordSink{} },
		EmptyVisible:          func(visible bool) { f.empty = append(f.empty, visible) },
		MultiSelectionAllowed: true,
		Post:                  func(fn func()) { f.queue <- fn },
	})
	require.NoError(t, err)
	f.list = list
	f.list.Mount(40)
	return f
}

// step runs the next queued completion on the test goroutine.
func (f *syncFixture) step(t *testing.T) {
	t.Helper()
	select {
	case fn := <-f.queue:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("no queued completion arrived")
	}
}

// loadFirstPage kicks off the initial fetch and applies its completion.
func (f *syncFixture) loadFirstPage(t *testing.T) {
	t.Helper()
	f.list.paginator.FetchNextPage(context.Background())
	f.step(t)
}

func TestSync_IgnoresOtherPartitions(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)

	f.list.EntityEventReceived(EntityEvent{ID: "e001", ListID: "archive", Op: OpDelete})
	assert.Equal(t, 5, f.list.Store().Len())
}

func TestSync_CreateInsertsWithinLoadedRange(t *testing.T) {
	f := newSyncFixture(t, seqEntities(20))
	f.loadFirstPage(t)
	require.Equal(t, 10, f.list.Store().Len())
	require.False(t, f.list.Store().Complete())

	created := ent("e005a")
	f.single["e005a"] = created
	f.list.EntityEventReceived(EntityEvent{ID: "e005a", ListID: "inbox", Op: OpCreate})
	f.step(t)

	assert.Equal(t, 11, f.list.Store().Len())
	assert.Equal(t, 6, f.list.Store().IndexByID("e005a"))
}

func TestSync_CreateBeyondLoadedRangeDropped(t *testing.T) {
	f := newSyncFixture(t, seqEntities(20))
	f.loadFirstPage(t)

	// Sorts after the last loaded entity of an incomplete list: a later
	// page will deliver it in order.
	f.single["e015"] = ent("e015")
	f.list.EntityEventReceived(EntityEvent{ID: "e015", ListID: "inbox", Op: OpCreate})
	f.step(t)

	assert.Equal(t, 10, f.list.Store().Len())
	assert.Nil(t, f.list.Store().FindByID("e015"))
}

func TestSync_CreateOnEmptyIncompleteStoreDropped(t *testing.T) {
	f := newSyncFixture(t, seqEntities(20))

	f.single["e000"] = ent("e000")
	f.list.EntityEventReceived(EntityEvent{ID: "e000", ListID: "inbox", Op: OpCreate})
	f.step(t)

	assert.Zero(t, f.list.Store().Len())
}

func TestSync_CreateOnCompleteListAppends(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)
	require.True(t, f.list.Store().Complete())

	f.single["e999"] = ent("e999")
	f.list.EntityEventReceived(EntityEvent{ID: "e999", ListID: "inbox", Op: OpCreate})
	f.step(t)

	assert.Equal(t, 6, f.list.Store().Len())
	assert.Equal(t, 5, f.list.Store().IndexByID("e999"))
}

func TestSync_CreateClearsEmptyState(t *testing.T) {
	f := newSyncFixture(t, nil)
	f.loadFirstPage(t)
	require.Equal(t, []bool{true}, f.empty)

	f.single["e000"] = ent("e000")
	f.list.EntityEventReceived(EntityEvent{ID: "e000", ListID: "inbox", Op: OpCreate})
	f.step(t)

	assert.Equal(t, 1, f.list.Store().Len())
	assert.Equal(t, []bool{true, false}, f.empty)
}

func TestSync_UpdateReplacesEntity(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)
	f.list.Click(f.list.Store().At(3))

	replacement := ent("e003")
	f.single["e003"] = replacement
	f.list.EntityEventReceived(EntityEvent{ID: "e003", ListID: "inbox", Op: OpUpdate})
	f.step(t)

	assert.Same(t, replacement, f.list.Store().FindByID("e003"))
	require.Equal(t, 1, f.list.Store().SelectedLen())
	assert.Same(t, replacement, f.list.Store().SelectedAt(0))
}

func TestSync_UpdateForUnknownEntityIgnored(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)

	f.single["zzz"] = ent("zzz")
	f.list.EntityEventReceived(EntityEvent{ID: "zzz", ListID: "inbox", Op: OpUpdate})
	f.step(t)

	assert.Equal(t, 5, f.list.Store().Len())
	assert.Nil(t, f.list.Store().FindByID("zzz"))
}

func TestSync_DeleteAdvancesSelection(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)
	f.list.Click(f.list.Store().At(2))
	before := len(f.events)

	f.list.EntityEventReceived(EntityEvent{ID: "e002", ListID: "inbox", Op: OpDelete})

	assert.Nil(t, f.list.Store().FindByID("e002"))
	assert.Equal(t, []string{"e003"}, selectedIDs(f.list.Store()))
	require.Len(t, f.events, before+1)
	ev := f.events[len(f.events)-1]
	assert.False(t, ev.explicit, "auto-advance is not user initiated")
	assert.True(t, ev.changed)
	assert.True(t, ev.multi)
}

func TestSync_DeleteLastSelectedWrapsBackward(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)
	f.list.Click(f.list.Store().At(4))

	f.list.EntityEventReceived(EntityEvent{ID: "e004", ListID: "inbox", Op: OpDelete})
	assert.Equal(t, []string{"e003"}, selectedIDs(f.list.Store()))
}

func TestSync_DeleteUnselectedLeavesSelectionQuiet(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)
	f.list.Click(f.list.Store().At(1))
	before := len(f.events)

	f.list.EntityEventReceived(EntityEvent{ID: "e003", ListID: "inbox", Op: OpDelete})

	assert.Equal(t, []string{"e001"}, selectedIDs(f.list.Store()))
	assert.Len(t, f.events, before)
}

func TestSync_DeleteUnknownIgnored(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)

	f.list.EntityEventReceived(EntityEvent{ID: "zzz", ListID: "inbox", Op: OpDelete})
	assert.Equal(t, 5, f.list.Store().Len())
}

func TestSync_EventsDuringFetchApplyAfterPage(t *testing.T) {
	release := make(chan struct{})
	source := seqEntities(5)
	gated := func(ctx context.Context, cursor string, limit int) ([]Entity, error) {
		<-release
		return sliceFetch(source)(ctx, cursor, limit)
	}

	f := newSyncFixture(t, nil)
	f.list.opts.Fetch = gated
	f.list.paginator = NewPaginator(f.list.store, gated, 10, f.list.run, f.list.pageApplied)

	f.list.paginator.FetchNextPage(context.Background())
	require.NotNil(t, f.list.paginator.Inflight())

	f.list.EntityEventReceived(EntityEvent{ID: "e002", ListID: "inbox", Op: OpDelete})
	assert.Equal(t, 1, len(f.list.pendingEvents), "event must wait for the page")

	close(release)
	f.step(t)

	assert.Equal(t, 4, f.list.Store().Len())
	assert.Nil(t, f.list.Store().FindByID("e002"))
	assert.Empty(t, f.list.pendingEvents)
}

func TestSync_PendingSelectTargetsCreatedEntity(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)
	require.True(t, f.list.Store().Complete())

	f.list.ScrollToIDAndSelectWhenReceived("e002a")
	created := ent("e002a")
	f.single["e002a"] = created
	f.list.EntityEventReceived(EntityEvent{ID: "e002a", ListID: "inbox", Op: OpCreate})
	f.step(t)

	assert.Equal(t, []string{"e002a"}, selectedIDs(f.list.Store()))
	assert.Empty(t, f.list.pendingSelectID)
	ev := f.events[len(f.events)-1]
	assert.False(t, ev.explicit)
	assert.False(t, ev.multi)
}

func TestSync_LoadFailureLeavesStoreUntouched(t *testing.T) {
	f := newSyncFixture(t, seqEntities(5))
	f.loadFirstPage(t)

	loaded := make(chan struct{})
	f.list.opts.LoadSingle = func(context.Context, string) (Entity, error) {
		defer close(loaded)
		return nil, errors.New("backend unavailable")
	}
	f.list.EntityEventReceived(EntityEvent{ID: "e002", ListID: "inbox", Op: OpUpdate})

	select {
	case <-loaded:
	case <-time.After(2 * time.Second):
		t.Fatal("single-entity load never ran")
	}
	assert.Equal(t, 5, f.list.Store().Len())
}
