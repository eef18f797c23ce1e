package vlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertKeepsOrderAndRejectsDuplicates(t *testing.T) {
	s := NewStore(cmpAsc)

	for _, id := range []string{"c", "a", "d", "b"} {
		assert.True(t, s.Insert(ent(id)))
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, loadedIDs(s))

	// Same identifier again: logged and ignored, store unchanged.
	assert.False(t, s.Insert(ent("c")))
	assert.Equal(t, 4, s.Len())
}

func TestStore_InsertHonorsComparator(t *testing.T) {
	s := NewStore(cmpDesc)
	for _, id := range []string{"a", "c", "b"} {
		s.Insert(ent(id))
	}
	assert.Equal(t, []string{"c", "b", "a"}, loadedIDs(s))
}

func TestStore_ReplaceUpdatesSelection(t *testing.T) {
	s := NewStore(cmpAsc)
	for _, id := range []string{"a", "b", "c"} {
		s.Insert(ent(id))
	}
	s.SelectOnly(s.FindByID("b"))

	replacement := ent("b")
	require.True(t, s.Replace(replacement))

	assert.Equal(t, 3, s.Len())
	require.Equal(t, 1, s.SelectedLen())
	assert.Same(t, replacement, s.SelectedAt(0), "selection should carry the replaced entity")
	assert.Same(t, replacement, s.FindByID("b"))
}

func TestStore_ReplaceUnknownIsNoop(t *testing.T) {
	s := NewStore(cmpAsc)
	s.Insert(ent("a"))
	assert.False(t, s.Replace(ent("z")))
	assert.Equal(t, 1, s.Len())
}

func TestStore_RemoveAdvancesSoleSelection(t *testing.T) {
	s := NewStore(cmpAsc)
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Insert(ent(id))
	}
	s.SelectOnly(s.FindByID("b"))

	removed, selChanged, autoAdvanced := s.Remove("b")
	require.NotNil(t, removed)
	assert.True(t, selChanged)
	assert.True(t, autoAdvanced)
	require.Equal(t, 1, s.SelectedLen())
	assert.Equal(t, "c", s.SelectedAt(0).EntityID(), "selection should advance to the next entity in sort order")
}

func TestStore_RemoveLastSelectedWrapsToPrevious(t *testing.T) {
	s := NewStore(cmpAsc)
	for _, id := range []string{"a", "b", "c"} {
		s.Insert(ent(id))
	}
	s.SelectOnly(s.FindByID("c"))

	_, selChanged, autoAdvanced := s.Remove("c")
	assert.True(t, selChanged)
	assert.True(t, autoAdvanced)
	require.Equal(t, 1, s.SelectedLen())
	assert.Equal(t, "b", s.SelectedAt(0).EntityID())
}

func TestStore_RemoveSoleEntityShrinksToNothing(t *testing.T) {
	s := NewStore(cmpAsc)
	s.Insert(ent("a"))
	s.SelectOnly(s.FindByID("a"))

	_, selChanged, autoAdvanced := s.Remove("a")
	assert.True(t, selChanged)
	assert.False(t, autoAdvanced, "no entity left to advance to")
	assert.Zero(t, s.SelectedLen())
	assert.Zero(t, s.Len())
}

func TestStore_RemoveFromMultiSelectionDoesNotAdvance(t *testing.T) {
	s := NewStore(cmpAsc)
	for _, id := range []string{"a", "b", "c"} {
		s.Insert(ent(id))
	}
	s.AddSelected(s.FindByID("a"))
	s.AddSelected(s.FindByID("b"))

	_, selChanged, autoAdvanced := s.Remove("a")
	assert.True(t, selChanged)
	assert.False(t, autoAdvanced)
	assert.Equal(t, []string{"b"}, ids(s.Selected()))
}

func TestStore_RemoveUnselectedLeavesSelection(t *testing.T) {
	s := NewStore(cmpAsc)
	for _, id := range []string{"a", "b", "c"} {
		s.Insert(ent(id))
	}
	s.SelectOnly(s.FindByID("a"))

	removed, selChanged, autoAdvanced := s.Remove("c")
	assert.NotNil(t, removed)
	assert.False(t, selChanged)
	assert.False(t, autoAdvanced)
	assert.Equal(t, []string{"a"}, ids(s.Selected()))
}

func TestStore_RemoveUnknown(t *testing.T) {
	s := NewStore(cmpAsc)
	removed, selChanged, _ := s.Remove("nope")
	assert.Nil(t, removed)
	assert.False(t, selChanged)
}

func TestStore_SelectionStaysSortedSubset(t *testing.T) {
	s := NewStore(cmpAsc)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		s.Insert(ent(id))
	}
	for _, id := range []string{"d", "a", "c"} {
		s.AddSelected(s.FindByID(id))
	}

	assert.Equal(t, []string{"a", "c", "d"}, ids(s.Selected()))
	for _, e := range s.Selected() {
		assert.NotNil(t, s.FindByID(e.EntityID()), "selected entity must be loaded")
	}

	// Adding an already selected entity changes nothing.
	s.AddSelected(s.FindByID("c"))
	assert.Equal(t, 3, s.SelectedLen())
}

func TestStore_SelectedReturnsCopy(t *testing.T) {
	s := NewStore(cmpAsc)
	s.Insert(ent("a"))
	s.SelectOnly(s.FindByID("a"))

	got := s.Selected()
	got[0] = ent("z")
	assert.Equal(t, "a", s.SelectedAt(0).EntityID())
}

func TestStore_ClearResetsEverything(t *testing.T) {
	s := NewStore(cmpAsc)
	s.Insert(ent("a"))
	s.SelectOnly(s.FindByID("a"))
	s.SetComplete()

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Zero(t, s.SelectedLen())
	assert.False(t, s.Complete())
}

func loadedIDs(s *Store) []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.At(i).EntityID()
	}
	return out
}
