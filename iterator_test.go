package silo

import "testing"

func countMatches(it *Iterator) int {
	n := 0
	for it.Advance() {
		n++
	}
	return n
}

func TestIteratorAccessWithNotFiltering(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")
	vel := RegisterComponent[velocity](r, "Velocity")
	w := NewWorld(r)

	for i := 0; i < 3; i++ {
		e := w.SpawnEntity()
		AddComponent(w, e, pos)
	}
	for i := 0; i < 4; i++ {
		e := w.SpawnEntity()
		AddComponent(w, e, pos)
		AddComponent(w, e, vel)
	}
	w.FlushEvents()

	it := w.AcquireIterator()
	it.Filter(pos.ID(), Access, 0)
	it.Filter(vel.ID(), Not, 1)
	it.Finalize()

	if got := countMatches(it); got != 3 {
		t.Errorf("Position-and-not-Velocity matched %d entities, want 3", got)
	}
	w.ReleaseIterator(it)

	it = w.AcquireIterator()
	it.Filter(pos.ID(), With, 0)
	it.Filter(vel.ID(), Access, 1)
	it.Finalize()

	if got := countMatches(it); got != 4 {
		t.Errorf("Position-with-Velocity-access matched %d entities, want 4", got)
	}
	w.ReleaseIterator(it)
}

func TestIteratorGetArgumentAndGetEntity(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")
	vel := RegisterComponent[velocity](r, "Velocity")
	w := NewWorld(r)

	e := w.SpawnEntity()
	AddComponent(w, e, pos)
	p := AddComponent(w, e, vel)
	p.X, p.Y = 1, 2
	w.FlushEvents()

	it := w.AcquireIterator()
	it.Filter(pos.ID(), Access, 0)
	it.Filter(vel.ID(), Access, 1)
	it.Finalize()

	if !it.Advance() {
		t.Fatal("expected one matching row")
	}
	if it.GetEntity() != e {
		t.Errorf("GetEntity = %v, want %v", it.GetEntity(), e)
	}
	gotVel := GetArgument[velocity](it, 1)
	if gotVel.X != 1 || gotVel.Y != 2 {
		t.Errorf("Velocity via iterator = %+v, want {1 2}", *gotVel)
	}
	w.ReleaseIterator(it)
}

func TestIteratorIgnoresNewArchetypeUntilFlush(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")
	vel := RegisterComponent[velocity](r, "Velocity")
	w := NewWorld(r)

	e := w.SpawnEntity()
	AddComponent(w, e, pos)
	w.FlushEvents()

	it := w.AcquireIterator()
	it.Filter(pos.ID(), Access, 0)
	it.Finalize()

	// Adding Velocity moves other into a brand new archetype while it is live.
	other := w.SpawnEntity()
	AddComponent(w, other, pos)
	AddComponent(w, other, vel)

	if got := countMatches(it); got != 1 {
		t.Errorf("pre-flush match count = %d, want 1 (new archetype not yet visible)", got)
	}
	w.ReleaseIterator(it)

	w.FlushEvents()

	it = w.AcquireIterator()
	it.Filter(pos.ID(), Access, 0)
	it.Finalize()
	if got := countMatches(it); got != 2 {
		t.Errorf("post-flush match count = %d, want 2", got)
	}
	w.ReleaseIterator(it)
}

func TestIteratorSeesNewArchetypeWithinSameIterationAfterFlush(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")
	vel := RegisterComponent[velocity](r, "Velocity")
	w := NewWorld(r)

	e := w.SpawnEntity()
	AddComponent(w, e, pos)
	w.FlushEvents()

	it := w.AcquireIterator()
	it.Filter(pos.ID(), Access, 0)
	it.Finalize()

	other := w.SpawnEntity()
	AddComponent(w, other, pos)
	AddComponent(w, other, vel)
	w.FlushEvents()

	if got := countMatches(it); got != 2 {
		t.Errorf("match count after flush while still iterating = %d, want 2", got)
	}
	w.ReleaseIterator(it)
}

func TestReleaseIteratorTwicePanics(t *testing.T) {
	r := NewRegistry()
	w := NewWorld(r)
	it := w.AcquireIterator()
	it.Finalize()
	w.ReleaseIterator(it)

	defer mustPanic(t, "released")
	w.ReleaseIterator(it)
}

func TestFilterAfterFinalizePanics(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r, "Position")
	w := NewWorld(r)
	it := w.AcquireIterator()
	it.Finalize()

	defer mustPanic(t, "Initializing")
	it.Filter(pos.ID(), Access, 0)
}
