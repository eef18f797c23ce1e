package vlist

// SelectedFunc reports a selection change to the embedder. selection is a
// defensive copy sorted by the configured comparator. explicit is true for
// changes the user made directly (click, keyboard), false for automatic ones
// (reconciliation advancing past a deleted entity). changed is false only
// for notifications that restate the current selection. multi marks
// multi-select gestures and non-explicit multi-origin changes.
type SelectedFunc func(selection []Entity, explicit, changed, multi bool)

// extendDirection records which end of a range selection was most recently
// extended, so extending the other way shrinks the range instead of growing
// it.
type extendDirection int

const (
	extendingForward extendDirection = iota
	extendingBackward
)

// selectionModel implements click and keyboard selection semantics over the
// store's selected sequence.
type selectionModel struct {
	store *Store
	multi bool
	dir   extendDirection

	// notify invokes the external selection callback.
	notify func(explicit, changed, multi bool)
	// repaint repositions the window so highlight state is repainted.
	repaint func()
}

// Click makes the selection exactly {e}. A click on the already sole
// selected entity is a no-op without a redundant callback.
func (m *selectionModel) Click(e Entity) {
	if m.store.SelectedLen() == 1 && m.store.IsSelected(e.EntityID()) {
		return
	}
	m.store.SelectOnly(e)
	m.repaint()
	m.notify(true, true, false)
}

// ToggleClick adds e to the selection if absent and removes it if present.
func (m *selectionModel) ToggleClick(e Entity) {
	if !m.multi {
		m.Click(e)
		return
	}
	if m.store.IsSelected(e.EntityID()) {
		m.store.RemoveSelected(e.EntityID())
	} else {
		m.store.AddSelected(e)
	}
	m.repaint()
	m.notify(true, true, true)
}

// RangeClick extends the selection from the selected entity nearest to e up
// to and including e.
func (m *selectionModel) RangeClick(e Entity) {
	if !m.multi {
		m.Click(e)
		return
	}
	if m.store.SelectedLen() == 0 {
		m.store.SelectOnly(e)
		m.repaint()
		m.notify(true, true, true)
		return
	}
	if m.store.SelectedLen() == 1 && m.store.IsSelected(e.EntityID()) {
		return
	}
	clicked := m.store.IndexByID(e.EntityID())
	if clicked < 0 {
		return
	}
	anchor := m.nearestSelectedIndex(clicked)
	lo, hi := anchor, clicked
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		if i == anchor {
			continue
		}
		m.store.AddSelected(m.store.At(i))
	}
	m.repaint()
	m.notify(true, true, true)
}

// nearestSelectedIndex returns the store index of the selected entity whose
// index is closest to target.
func (m *selectionModel) nearestSelectedIndex(target int) int {
	best, bestDist := -1, -1
	for i := 0; i < m.store.SelectedLen(); i++ {
		idx := m.store.IndexByID(m.store.SelectedAt(i).EntityID())
		if idx < 0 {
			continue
		}
		dist := idx - target
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best, bestDist = idx, dist
		}
	}
	return best
}

// SelectNext moves or extends the selection one entity forward in sort
// order. Moving past the last loaded entity is a no-op.
func (m *selectionModel) SelectNext(extend bool) {
	m.move(1, extend)
}

// SelectPrevious moves or extends the selection one entity backward in sort
// order. Moving past the first loaded entity is a no-op.
func (m *selectionModel) SelectPrevious(extend bool) {
	m.move(-1, extend)
}

func (m *selectionModel) move(dir int, extend bool) {
	if m.store.Len() == 0 {
		return
	}
	extend = extend && m.multi

	if m.store.SelectedLen() == 0 {
		// Nothing selected yet: enter the list at the matching end.
		i := 0
		if dir < 0 {
			i = m.store.Len() - 1
		}
		m.store.SelectOnly(m.store.At(i))
		m.repaint()
		m.notify(true, true, extend)
		return
	}

	if extend && m.store.SelectedLen() > 1 {
		// Extending against the most recent direction shrinks the range
		// from the far end instead of growing it.
		if dir > 0 && m.dir == extendingBackward {
			m.store.RemoveSelected(m.store.SelectedAt(0).EntityID())
			m.repaint()
			m.notify(true, true, true)
			return
		}
		if dir < 0 && m.dir == extendingForward {
			m.store.RemoveSelected(m.store.SelectedAt(m.store.SelectedLen() - 1).EntityID())
			m.repaint()
			m.notify(true, true, true)
			return
		}
	}

	// Step from the edge of the selection facing the move direction.
	var edge Entity
	if dir > 0 {
		edge = m.store.SelectedAt(m.store.SelectedLen() - 1)
	} else {
		edge = m.store.SelectedAt(0)
	}
	idx := m.store.IndexByID(edge.EntityID())
	next := idx + dir
	if next < 0 || next >= m.store.Len() {
		return
	}
	target := m.store.At(next)

	if extend {
		if dir > 0 {
			m.dir = extendingForward
		} else {
			m.dir = extendingBackward
		}
		m.store.AddSelected(target)
	} else {
		m.store.SelectOnly(target)
	}
	m.repaint()
	m.notify(true, true, extend)
}
