package silo

import (
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// Archetype is the columnar storage for every entity sharing one exact
// component set. Archetypes are never destroyed once created; ids are
// stable for the lifetime of the owning World.
type Archetype struct {
	id      uint32
	bits    mask.Mask
	columns map[ComponentId]*column
	// order is a stable, bit-order traversal of the columns, used by
	// allocateRow, freeRow, destroyRow and destroyAll.
	order       []ComponentId
	rowToEntity []EntityId
}

// ID returns this archetype's stable identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Bits returns the component bitset that identifies this archetype.
func (a *Archetype) Bits() mask.Mask {
	return a.bits
}

// Rows reports the number of live rows.
func (a *Archetype) Rows() int {
	return len(a.rowToEntity)
}

func newArchetype(id uint32, bits mask.Mask, registry *Registry) *Archetype {
	a := &Archetype{
		id:      id,
		bits:    bits,
		columns: make(map[ComponentId]*column),
	}
	for i := range registry.components {
		info := &registry.components[i]
		if bits.ContainsAll(singleBit(info.id)) {
			a.columns[info.id] = newColumn(info)
			a.order = append(a.order, info.id)
		}
	}
	return a
}

// allocateRow grows every column by one element (or, thanks to column's
// truncate-then-append reuse, revives a previously freed trailing slot)
// and returns the new row index.
func (a *Archetype) allocateRow() int {
	for _, id := range a.order {
		a.columns[id].grow()
	}
	a.rowToEntity = append(a.rowToEntity, EntityId(INVALID))
	return len(a.rowToEntity) - 1
}

// freeRow removes row via swap-remove: if row is not the last live row,
// the last row's data is relocated into it; the tail slot is then
// truncated away. freeRow never invokes a component's destroy itself —
// ownership of a row's values transfers bytewise, and a value that is
// genuinely going away (not relocated, not copied to another archetype)
// must be torn down by the caller via destroyRow before freeRow runs, or
// it is left to leak into the truncated tail undetected. freeRow returns
// the entity whose row was relocated (and true), so the caller can update
// that entity's stored row index; it returns (INVALID, false) when row
// was already the tail.
func (a *Archetype) freeRow(row int) (moved EntityId, didMove bool) {
	moved = EntityId(INVALID)
	last := len(a.rowToEntity) - 1
	if row != last {
		for _, id := range a.order {
			a.columns[id].copyWithin(last, row)
		}
		a.rowToEntity[row] = a.rowToEntity[last]
		moved, didMove = a.rowToEntity[row], true
	}
	for _, id := range a.order {
		a.columns[id].truncateTail()
	}
	a.rowToEntity = a.rowToEntity[:last]
	return moved, didMove
}

// destroyRow runs destroy on row's live values, without removing the row.
// With no arguments it tears down every column (full entity teardown,
// used ahead of a freeRow that has no destination archetype). Passed one
// or more component ids, it destroys only those columns' values (used
// ahead of a freeRow driven by component removal, where the surviving
// columns' values have already been preserved via copyRowTo and must not
// be destroyed twice).
func (a *Archetype) destroyRow(row int, only ...ComponentId) {
	if len(only) == 0 {
		for _, id := range a.order {
			a.columns[id].runDestroy(row)
		}
		return
	}
	for _, id := range only {
		if col, ok := a.columns[id]; ok {
			col.runDestroy(row)
		}
	}
}

// Get returns a pointer to component c's value at row. Panics if the
// component is not part of this archetype or the row is out of range.
func (a *Archetype) Get(c ComponentId, row int) unsafe.Pointer {
	col, ok := a.columns[c]
	if !ok {
		failHandle("component not present on this archetype")
	}
	if row < 0 || row >= len(a.rowToEntity) {
		failState("row is not taken")
	}
	return col.ptr(row)
}

// copyRowTo copies every component present on both a and dest from srcRow
// to destRow. Components present only on one side are left untouched on
// the other.
func (a *Archetype) copyRowTo(srcRow int, dest *Archetype, destRow int) {
	for id, col := range a.columns {
		if dcol, ok := dest.columns[id]; ok {
			col.runCopyTo(srcRow, dcol, destRow)
		}
	}
}

// destroyAll runs every live component's destroy across every row, used
// when a World is freed.
func (a *Archetype) destroyAll() {
	for _, id := range a.order {
		col := a.columns[id]
		for row := 0; row < col.rows(); row++ {
			col.runDestroy(row)
		}
		col.buf = nil
	}
	a.rowToEntity = nil
}

func singleBit(c ComponentId) mask.Mask {
	var m mask.Mask
	m.Mark(uint32(c))
	return m
}
