package vlist

// RowSink is the externally owned render handle of one pool row. Calls are
// synchronous, fire-and-forget, and carry no return contract.
type RowSink interface {
	// Bind attaches the row to an entity at a vertical pixel offset. odd
	// flips with the entity's store index so alternating row shading stays
	// consistent; selected drives highlight state.
	Bind(e Entity, offset int, odd, selected bool)
	// Unbind detaches the row so it renders nothing.
	Unbind()
	// Translate shifts the row horizontally by dx pixels. It is used by
	// swipe gestures; zero resets the row.
	Translate(dx int)
}

// VirtualRow is one slot of the sliding window. It is bound to a vertical
// offset and, while its implied store index is in range, to one entity.
type VirtualRow struct {
	offset int
	entity Entity
	sink   RowSink
}

// Offset returns the row's vertical pixel offset.
func (r *VirtualRow) Offset() int {
	return r.offset
}

// Entity returns the entity bound to the row, or nil.
func (r *VirtualRow) Entity() Entity {
	return r.entity
}

// Sink returns the row's render handle.
func (r *VirtualRow) Sink() RowSink {
	return r.sink
}

// PoolSize returns the number of pool rows needed for a viewport of
// viewportRows visible rows with bufferRows extra rows above and below. The
// visible share is rounded up to an even count so odd/even shading does not
// flip when the window slides.
func PoolSize(viewportRows, bufferRows int) int {
	return 2*((viewportRows+1)/2) + 2*bufferRows
}

// RowPool is a fixed-capacity ring of virtual rows addressed by a head index.
// Rotating the ring reassigns one row from one end of the window to the
// other without moving the remaining rows.
type RowPool struct {
	rows []*VirtualRow
	head int
}

// NewRowPool returns a pool of size rows, each backed by a sink obtained
// from newSink.
func NewRowPool(size int, newSink func() RowSink) *RowPool {
	p := &RowPool{rows: make([]*VirtualRow, size)}
	for i := range p.rows {
		p.rows[i] = &VirtualRow{sink: newSink()}
	}
	return p
}

// Len returns the fixed number of rows in the pool.
func (p *RowPool) Len() int {
	return len(p.rows)
}

// Row returns the i-th row in window order, topmost first.
func (p *RowPool) Row(i int) *VirtualRow {
	return p.rows[(p.head+i)%len(p.rows)]
}

// Head returns the topmost row of the window.
func (p *RowPool) Head() *VirtualRow {
	return p.Row(0)
}

// Tail returns the bottommost row of the window.
func (p *RowPool) Tail() *VirtualRow {
	return p.Row(len(p.rows) - 1)
}

// RotateForward moves the topmost row to the bottom of the window and
// returns it. The caller is expected to rebind the returned row.
func (p *RowPool) RotateForward() *VirtualRow {
	row := p.rows[p.head]
	p.head = (p.head + 1) % len(p.rows)
	return row
}

// RotateBackward moves the bottommost row to the top of the window and
// returns it.
func (p *RowPool) RotateBackward() *VirtualRow {
	p.head = (p.head + len(p.rows) - 1) % len(p.rows)
	return p.rows[p.head]
}

// Each calls fn for every row in window order.
func (p *RowPool) Each(fn func(*VirtualRow)) {
	for i := range p.rows {
		fn(p.Row(i))
	}
}
