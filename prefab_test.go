package silo

import (
	"testing"
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

type vec2 struct{ X, Y float64 }

func TestPrefabAddGetRemoveComponent(t *testing.T) {
	r := NewRegistry()
	position := RegisterComponent[vec2](r, "Position")

	p := r.CreatePrefab()
	want := &vec2{X: 3, Y: 4}
	PrefabAddComponent(r, p, position, want)

	got := PrefabGetComponent(r, p, position)
	if *got != *want {
		t.Errorf("PrefabGetComponent = %+v, want %+v", *got, *want)
	}

	r.PrefabRemoveComponent(p, position.ID())
	if r.PrefabBits(p) != (mask.Mask{}) {
		t.Errorf("prefab bits not empty after removing its only component")
	}
}

func TestPrefabAddComponentNilDefaultFallsBackToInit(t *testing.T) {
	r := NewRegistry()
	inits := 0
	health := RegisterComponentWithCallbacks[int32](r, "Health", ComponentCallbacks{
		Init: func(mem unsafe.Pointer) {
			inits++
			*(*int32)(mem) = 100
		},
	})

	p := r.CreatePrefab()
	PrefabAddComponent[int32](r, p, health, nil)

	if inits != 1 {
		t.Fatalf("Init calls = %d, want 1", inits)
	}
	if got := *PrefabGetComponent(r, p, health); got != 100 {
		t.Errorf("health default = %d, want 100", got)
	}
}

func TestPrefabAddComponentIsIdempotentPerComponent(t *testing.T) {
	r := NewRegistry()
	position := RegisterComponent[vec2](r, "Position")

	p := r.CreatePrefab()
	PrefabAddComponent(r, p, position, &vec2{X: 1, Y: 1})
	PrefabAddComponent(r, p, position, &vec2{X: 9, Y: 9})

	if n := len(r.prefabSlotFor(p).entries); n != 1 {
		t.Fatalf("entries after re-adding same component = %d, want 1", n)
	}
	if got := *PrefabGetComponent(r, p, position); got != (vec2{X: 9, Y: 9}) {
		t.Errorf("second add did not overwrite default: got %+v", got)
	}
}

func TestDestroyPrefabRunsDestroyAndRecyclesSlot(t *testing.T) {
	r := NewRegistry()
	destroyed := 0
	tag := RegisterComponentWithCallbacks[int32](r, "Tag", ComponentCallbacks{
		Destroy: func(unsafe.Pointer) { destroyed++ },
	})

	p1 := r.CreatePrefab()
	PrefabAddComponent[int32](r, p1, tag, nil)
	r.DestroyPrefab(p1)

	if destroyed != 1 {
		t.Fatalf("destroy calls = %d, want 1", destroyed)
	}

	p2 := r.CreatePrefab()
	if p1.Index() != p2.Index() {
		t.Errorf("slot index not recycled: p1=%d p2=%d", p1.Index(), p2.Index())
	}
	if p1.Generation() == p2.Generation() {
		t.Errorf("recycled slot did not bump generation: both %d", p1.Generation())
	}

	defer mustPanic(t, "stale")
	r.PrefabBits(p1)
}
