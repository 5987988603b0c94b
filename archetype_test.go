package silo

import "testing"

func TestArchetypeAllocateAndGetRow(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")

	m := singleBit(pos.ID())
	a := newArchetype(0, m, r)

	row := a.allocateRow()
	p := (*position)(a.Get(pos.ID(), row))
	p.X, p.Y = 7, 8

	if got := (*position)(a.Get(pos.ID(), row)); got.X != 7 || got.Y != 8 {
		t.Errorf("Get after write = %+v, want {7 8}", *got)
	}
	if a.Rows() != 1 {
		t.Errorf("Rows() = %d, want 1", a.Rows())
	}
}

func TestArchetypeFreeRowSwapRemove(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")
	m := singleBit(pos.ID())
	a := newArchetype(0, m, r)

	r0 := a.allocateRow()
	a.rowToEntity[r0] = EntityId(100)
	(*position)(a.Get(pos.ID(), r0)).X = 1

	r1 := a.allocateRow()
	a.rowToEntity[r1] = EntityId(200)
	(*position)(a.Get(pos.ID(), r1)).X = 2

	r2 := a.allocateRow()
	a.rowToEntity[r2] = EntityId(300)
	(*position)(a.Get(pos.ID(), r2)).X = 3

	moved, didMove := a.freeRow(r0)
	if !didMove || moved != EntityId(300) {
		t.Fatalf("freeRow(0) = (%v, %v), want (300, true)", moved, didMove)
	}
	if a.Rows() != 2 {
		t.Fatalf("Rows() after free = %d, want 2", a.Rows())
	}
	if got := (*position)(a.Get(pos.ID(), 0)).X; got != 3 {
		t.Errorf("row 0 after swap = %v, want 3 (relocated from the former tail)", got)
	}
	if a.rowToEntity[0] != EntityId(300) {
		t.Errorf("rowToEntity[0] = %v, want 300", a.rowToEntity[0])
	}
}

func TestArchetypeFreeRowOfTailNeedsNoRelocation(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")
	m := singleBit(pos.ID())
	a := newArchetype(0, m, r)

	row := a.allocateRow()
	a.rowToEntity[row] = EntityId(42)

	moved, didMove := a.freeRow(row)
	if didMove {
		t.Errorf("freeRow of the only row reported a relocation: moved=%v", moved)
	}
	if a.Rows() != 0 {
		t.Errorf("Rows() after freeing the only row = %d, want 0", a.Rows())
	}
}
