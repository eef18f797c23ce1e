package vlist

import (
	"slices"

	"github.com/rs/zerolog"
)

// Store holds the ordered sequence of currently loaded entities and the
// ordered subset of selected entities. Both sequences are kept sorted by the
// same comparator at all times, and the loaded sequence never contains two
// entities with the same identifier.
type Store struct {
	cmp      Compare
	loaded   []Entity
	selected []Entity
	complete bool

	log zerolog.Logger
}

// NewStore returns an empty store ordered by cmp.
func NewStore(cmp Compare) *Store {
	return &Store{
		cmp: cmp,
		log: zerolog.Nop(),
	}
}

// SetLogger sets the logger used for non-fatal anomalies.
func (s *Store) SetLogger(log zerolog.Logger) *Store {
	s.log = log
	return s
}

// Len returns the number of loaded entities.
func (s *Store) Len() int {
	return len(s.loaded)
}

// At returns the loaded entity at index i, or nil if i is out of range.
func (s *Store) At(i int) Entity {
	if i < 0 || i >= len(s.loaded) {
		return nil
	}
	return s.loaded[i]
}

// Last returns the last loaded entity in sort order, or nil if the store is
// empty.
func (s *Store) Last() Entity {
	if len(s.loaded) == 0 {
		return nil
	}
	return s.loaded[len(s.loaded)-1]
}

// Complete reports whether the backing data source has no further pages.
func (s *Store) Complete() bool {
	return s.complete
}

// SetComplete marks the store as completely loaded. The flag is permanent
// until the store is cleared.
func (s *Store) SetComplete() {
	s.complete = true
}

// Insert adds e to the loaded sequence and re-sorts. Inserting an entity
// whose identifier is already present is a non-fatal anomaly: it is logged
// and ignored, and the store is left unchanged. Insert reports whether the
// entity was added.
func (s *Store) Insert(e Entity) bool {
	if s.IndexByID(e.EntityID()) >= 0 {
		s.log.Warn().
			Str("id", e.EntityID()).
			Str("list", e.ListID()).
			Msg("duplicate insert ignored")
		return false
	}
	s.loaded = append(s.loaded, e)
	s.sortLoaded()
	return true
}

// Replace substitutes the loaded entity carrying the same identifier as e
// and re-sorts. If the entity is selected, the selected sequence is updated
// as well so selection survives content updates. Replace reports whether a
// matching entity was found.
func (s *Store) Replace(e Entity) bool {
	i := s.IndexByID(e.EntityID())
	if i < 0 {
		return false
	}
	s.loaded[i] = e
	s.sortLoaded()
	if j := indexByID(s.selected, e.EntityID()); j >= 0 {
		s.selected[j] = e
		s.sortSelected()
	}
	return true
}

// Remove deletes the entity with the given identifier from the loaded
// sequence. If it was the sole selected entity and at least one other entity
// remains, selection advances to the next entity in sort order, wrapping to
// the previous one when the removed entity was last. Remove returns the
// removed entity (nil if absent), whether the selection changed, and whether
// the change was such an automatic next-element advance rather than a shrink
// to nothing.
func (s *Store) Remove(id string) (removed Entity, selChanged, autoAdvanced bool) {
	i := s.IndexByID(id)
	if i < 0 {
		return nil, false, false
	}
	removed = s.loaded[i]
	s.loaded = slices.Delete(s.loaded, i, i+1)

	j := indexByID(s.selected, id)
	if j < 0 {
		return removed, false, false
	}
	wasSole := len(s.selected) == 1
	s.selected = slices.Delete(s.selected, j, j+1)
	if !wasSole || len(s.loaded) == 0 {
		return removed, true, false
	}

	// Sole selected entity removed with others remaining: advance to the
	// entity that took its index, wrapping back when it was the last one.
	next := i
	if next >= len(s.loaded) {
		next = len(s.loaded) - 1
	}
	s.selected = append(s.selected[:0], s.loaded[next])
	return removed, true, true
}

// FindByID returns the loaded entity with the given identifier, or nil.
func (s *Store) FindByID(id string) Entity {
	if i := s.IndexByID(id); i >= 0 {
		return s.loaded[i]
	}
	return nil
}

// IndexByID returns the index of the entity with the given identifier in the
// loaded sequence, or -1.
func (s *Store) IndexByID(id string) int {
	return indexByID(s.loaded, id)
}

// Selected returns a defensive copy of the selected sequence.
func (s *Store) Selected() []Entity {
	return slices.Clone(s.selected)
}

// SelectedLen returns the number of selected entities.
func (s *Store) SelectedLen() int {
	return len(s.selected)
}

// SelectedAt returns the selected entity at index i, or nil.
func (s *Store) SelectedAt(i int) Entity {
	if i < 0 || i >= len(s.selected) {
		return nil
	}
	return s.selected[i]
}

// IsSelected reports whether the entity with the given identifier is
// selected.
func (s *Store) IsSelected(id string) bool {
	return indexByID(s.selected, id) >= 0
}

// SelectOnly makes the selection exactly {e}.
func (s *Store) SelectOnly(e Entity) {
	s.selected = append(s.selected[:0], e)
}

// AddSelected adds e to the selection if it is absent and re-sorts.
func (s *Store) AddSelected(e Entity) {
	if indexByID(s.selected, e.EntityID()) >= 0 {
		return
	}
	s.selected = append(s.selected, e)
	s.sortSelected()
}

// RemoveSelected removes the entity with the given identifier from the
// selection. It reports whether the entity was selected.
func (s *Store) RemoveSelected(id string) bool {
	i := indexByID(s.selected, id)
	if i < 0 {
		return false
	}
	s.selected = slices.Delete(s.selected, i, i+1)
	return true
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.selected = s.selected[:0]
}

// Clear resets the store to its initial empty state.
func (s *Store) Clear() {
	s.loaded = nil
	s.selected = nil
	s.complete = false
}

func (s *Store) sortLoaded() {
	slices.SortStableFunc(s.loaded, s.cmp)
}

func (s *Store) sortSelected() {
	slices.SortStableFunc(s.selected, s.cmp)
}

func indexByID(entities []Entity, id string) int {
	return slices.IndexFunc(entities, func(e Entity) bool {
		return e.EntityID() == id
	})
}
