package silo

import (
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// FilterMode is the role a component plays in a query slot.
type FilterMode int

const (
	// Access requires the component and exposes a pointer to it.
	Access FilterMode = iota
	// With requires the component but does not expose a pointer.
	With
	// Not forbids the component.
	Not
)

// IteratorState is an Iterator's lifecycle stage.
type IteratorState int

const (
	Released IteratorState = iota
	Initializing
	Iterating
)

type filterSlot struct {
	component ComponentId
	mode      FilterMode
}

// Iterator is a compiled query bound to a World. It owns its query state
// and holds a non-owning back-reference to its world. Iterator values are
// recycled through World.AcquireIterator/ReleaseIterator; release zeroes
// the iterator, so each acquire allocates a fresh filter map and the next
// Finalize a fresh match list.
type Iterator struct {
	world *World
	state IteratorState

	slots     map[int]filterSlot
	required  mask.Mask
	forbidden mask.Mask

	matches []*Archetype
	archIdx int
	row     int
}

// Filter records that slot of each yielded tuple is bound to component
// under mode. Access and With both require the component; only Access
// exposes a pointer via GetArgument. Not forbids the component. Fatal if
// called outside the Initializing state.
func (it *Iterator) Filter(component ComponentId, mode FilterMode, slot int) {
	if it.state != Initializing {
		failState("Filter called outside Initializing state")
	}
	it.slots[slot] = filterSlot{component: component, mode: mode}
}

// Finalize freezes the query, computes the required/forbidden bitsets,
// walks the world's archetypes once to build the match list, and
// transitions the iterator to Iterating.
func (it *Iterator) Finalize() {
	if it.state != Initializing {
		failState("Finalize called outside Initializing state")
	}
	var required, forbidden mask.Mask
	for _, f := range it.slots {
		switch f.mode {
		case Access, With:
			required.Mark(uint32(f.component))
		case Not:
			forbidden.Mark(uint32(f.component))
		}
	}
	it.required = required
	it.forbidden = forbidden

	it.matches = it.matches[:0]
	for _, arch := range it.world.archetypes {
		if arch.bits.ContainsAll(required) && arch.bits.ContainsNone(forbidden) {
			it.matches = append(it.matches, arch)
		}
	}
	it.state = Iterating
	it.Begin()
}

// Begin resets the cursor to the first archetype and first row.
func (it *Iterator) Begin() {
	it.archIdx = 0
	it.row = -1
}

// Advance moves the cursor to the next matching row, row-major within the
// current archetype and then skipping to the next archetype with at
// least one row. Returns false once exhausted. Calling Advance at least
// once is required before GetArgument/GetEntity.
func (it *Iterator) Advance() bool {
	for it.archIdx < len(it.matches) {
		arch := it.matches[it.archIdx]
		if it.row+1 < arch.Rows() {
			it.row++
			return true
		}
		it.archIdx++
		it.row = -1
	}
	return false
}

// GetArgument returns the column pointer in the current archetype at the
// current row for slot. Panics if slot is a With or Not filter, if slot was
// never filtered, or if Advance has not yet been called onto a valid row.
func (it *Iterator) GetArgument(slot int) unsafe.Pointer {
	f, ok := it.slots[slot]
	if !ok || f.mode != Access {
		failState("slot is not an accessible argument")
	}
	if it.archIdx >= len(it.matches) || it.row < 0 {
		failState("Advance must be called before GetArgument")
	}
	return it.matches[it.archIdx].Get(f.component, it.row)
}

// GetEntity returns the inverse-mapping entry for the current row.
func (it *Iterator) GetEntity() EntityId {
	if it.archIdx >= len(it.matches) || it.row < 0 {
		failState("Advance must be called before GetEntity")
	}
	return it.matches[it.archIdx].rowToEntity[it.row]
}
