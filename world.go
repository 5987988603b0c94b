package silo

import (
	"unsafe"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// EntityStatus is the lifecycle state of a live entity.
type EntityStatus int

const (
	NewlySpawned EntityStatus = iota
	Spawned
	Destroying
)

// entitySlot is one entry of the World's generational arena.
type entitySlot struct {
	taken      bool
	generation uint8
	archetype  *Archetype
	row        int
	status     EntityStatus
	nameIdx    int
	prefab     PrefabId
}

// SpawnInfo carries optional metadata for a freshly spawned entity.
type SpawnInfo struct {
	Name string
}

// World owns entities, every archetype table, the event queue, and the
// iterator pool. A World touches only one Registry; the Registry may be
// shared by several Worlds as long as it is not mutated while any of them
// has an iterator live between Finalize and Release.
type World struct {
	registry *Registry

	archetypes      []*Archetype
	archByBits      map[mask.Mask]*Archetype
	nextArchetypeID uint32

	slots     []entitySlot
	freeSlots []uint32

	events eventQueue

	iteratorPool []*Iterator
	acquired     map[*Iterator]struct{}

	names *nameCache
}

// NewWorld creates a World bound to registry.
func NewWorld(registry *Registry) *World {
	w := &World{
		registry:   registry,
		archByBits: make(map[mask.Mask]*Archetype),
		acquired:   make(map[*Iterator]struct{}),
		names:      newNameCache(Config.nameCacheCapacity),
	}
	w.iteratorPool = make([]*Iterator, 0, Config.iteratorPoolInitialCap)
	return w
}

// Archetypes returns every archetype this World has created, in creation order.
func (w *World) Archetypes() []*Archetype {
	return w.archetypes
}

func (w *World) allocateSlot() (EntityId, *entitySlot) {
	var idx uint32
	if n := len(w.freeSlots); n > 0 {
		idx = w.freeSlots[n-1]
		w.freeSlots = w.freeSlots[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, entitySlot{})
	}
	slot := &w.slots[idx]
	slot.taken = true
	slot.archetype = nil
	slot.row = -1
	slot.nameIdx = -1
	slot.prefab = PrefabId(INVALID)
	id := EntityId(packHandle(idx, slot.generation))
	return id, slot
}

func (w *World) lookup(id EntityId) *entitySlot {
	if !id.Valid() {
		failHandle("invalid entity handle")
	}
	idx := id.Index()
	if int(idx) >= len(w.slots) {
		failHandle("unknown entity index")
	}
	slot := &w.slots[idx]
	if !slot.taken || slot.generation != id.Generation() {
		failHandle("stale entity handle")
	}
	return slot
}

func singleBitSet(bits mask.Mask, c ComponentId) bool {
	return bits.ContainsAll(singleBit(c))
}

// findOrCreateArchetype returns the archetype matching bits, creating it
// (and enqueueing NewArchetype) if no such archetype exists yet. bits must
// not be empty; callers representing "no components" use a nil Archetype
// instead of an archetype with an empty bitset.
func (w *World) findOrCreateArchetype(bits mask.Mask) *Archetype {
	if arch, ok := w.archByBits[bits]; ok {
		return arch
	}
	arch := newArchetype(w.nextArchetypeID, bits, w.registry)
	w.nextArchetypeID++
	w.archetypes = append(w.archetypes, arch)
	w.archByBits[bits] = arch
	w.events.enqueue(WorldEvent{Kind: EvNewArchetype, Archetype: arch})
	return arch
}

// moveEntity performs an archetype transition: it allocates a
// row on dest (or none, if dest is nil), copies over every component
// present on both sides, and frees the old row, fixing up the inverse
// mapping of whichever row got relocated by the swap-remove.
func (w *World) moveEntity(entity EntityId, slot *entitySlot, dest *Archetype) {
	src := slot.archetype
	if dest == nil {
		if src != nil {
			w.freeRowFixup(src, slot.row)
		}
		slot.archetype = nil
		slot.row = -1
		return
	}
	dstRow := dest.allocateRow()
	if src != nil {
		src.copyRowTo(slot.row, dest, dstRow)
		w.freeRowFixup(src, slot.row)
	}
	dest.rowToEntity[dstRow] = entity
	slot.archetype = dest
	slot.row = dstRow
}

func (w *World) freeRowFixup(arch *Archetype, row int) {
	moved, didMove := arch.freeRow(row)
	if didMove {
		movedSlot := &w.slots[moved.Index()]
		movedSlot.row = row
	}
}

// SpawnEntity allocates an entity slot in state NewlySpawned with no
// components, equivalent to SpawnEntityPrefab(INVALID, info...).
func (w *World) SpawnEntity(info ...SpawnInfo) EntityId {
	return w.SpawnEntityPrefab(PrefabId(INVALID), info...)
}

// SpawnEntityPrefab allocates an entity slot in state NewlySpawned. If
// prefab is valid and its aggregate bitset is non-empty, the matching
// archetype is found-or-created, a row is allocated there, and every
// prefab blob is copied into the corresponding column.
func (w *World) SpawnEntityPrefab(prefab PrefabId, info ...SpawnInfo) EntityId {
	id, slot := w.allocateSlot()
	slot.status = NewlySpawned
	slot.prefab = prefab
	if len(info) > 0 && info[0].Name != "" {
		idx, err := w.names.intern(info[0].Name)
		if err != nil {
			panic(bark.AddTrace(err))
		}
		slot.nameIdx = idx
	}
	if prefab.Valid() {
		pslot := w.registry.prefabSlotFor(prefab)
		if pslot.bits != (mask.Mask{}) {
			arch := w.findOrCreateArchetype(pslot.bits)
			row := arch.allocateRow()
			for _, entry := range pslot.entries {
				col := arch.columns[entry.component]
				col.copyFromPtr(unsafe.Pointer(&entry.blob[0]), row)
			}
			arch.rowToEntity[row] = id
			slot.archetype = arch
			slot.row = row
		}
	}
	w.events.enqueue(WorldEvent{Kind: EvNewEntity, Entity: id})
	return id
}

// AddComponent moves entity to the archetype that results from OR-ing
// component's bit into its current bitset (find-or-create), preserving
// every other component's value via copy, and returns a pointer to the
// freshly initialized slot. If entity already carries component, its
// existing value is destroyed and re-initialized in place instead.
func (w *World) AddComponent(entity EntityId, component ComponentId) unsafe.Pointer {
	slot := w.lookup(entity)
	if slot.status == Destroying {
		failHandle("entity is being destroyed")
	}
	w.registry.componentInfo(component) // validates the handle

	if slot.archetype != nil && singleBitSet(slot.archetype.bits, component) {
		col := slot.archetype.columns[component]
		col.runDestroy(slot.row)
		col.runInit(slot.row)
		w.events.enqueue(WorldEvent{Kind: EvUpdateComponent, Entity: entity, Component: component})
		return col.ptr(slot.row)
	}

	var newBits mask.Mask
	if slot.archetype != nil {
		newBits = slot.archetype.bits
	}
	newBits.Mark(uint32(component))
	dest := w.findOrCreateArchetype(newBits)
	w.moveEntity(entity, slot, dest)
	w.events.enqueue(WorldEvent{Kind: EvNewComponent, Entity: entity, Component: component})
	return dest.columns[component].ptr(slot.row)
}

// RemoveComponent moves entity to the archetype resulting from AND-NOT-ing
// component's bit out. If entity did not carry component, this is a no-op.
// The removed column's value is destroyed before the row move rather than
// left to swap-remove's implicit overwrite (see DESIGN.md).
func (w *World) RemoveComponent(entity EntityId, component ComponentId) {
	slot := w.lookup(entity)
	if slot.archetype == nil || !singleBitSet(slot.archetype.bits, component) {
		return
	}
	slot.archetype.destroyRow(slot.row, component)
	newBits := slot.archetype.bits
	newBits.Unmark(uint32(component))

	var dest *Archetype
	if newBits != (mask.Mask{}) {
		dest = w.findOrCreateArchetype(newBits)
	}
	w.moveEntity(entity, slot, dest)
	w.events.enqueue(WorldEvent{Kind: EvDestroyComponent, Entity: entity, Component: component})
}

// EntityHasComponent reports whether entity's archetype bitset includes component.
func (w *World) EntityHasComponent(entity EntityId, component ComponentId) bool {
	slot := w.lookup(entity)
	if slot.archetype == nil {
		return false
	}
	return singleBitSet(slot.archetype.bits, component)
}

// EntityGetComponent returns a pointer to component's value on entity.
// Panics if entity's archetype does not carry component.
func (w *World) EntityGetComponent(entity EntityId, component ComponentId) unsafe.Pointer {
	slot := w.lookup(entity)
	if slot.archetype == nil || !singleBitSet(slot.archetype.bits, component) {
		failNotFound("component not present on entity")
	}
	return slot.archetype.columns[component].ptr(slot.row)
}

// DestroyEntity transitions entity to Destroying (idempotent) and enqueues
// a DestroyEntity event. The row remains in place until FlushEvents.
func (w *World) DestroyEntity(entity EntityId) {
	slot := w.lookup(entity)
	if slot.status == Destroying {
		return
	}
	slot.status = Destroying
	w.events.enqueue(WorldEvent{Kind: EvDestroyEntity, Entity: entity})
}

// SetEntityName attaches (or replaces) entity's debug name.
func (w *World) SetEntityName(entity EntityId, name string) {
	slot := w.lookup(entity)
	idx, err := w.names.intern(name)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	slot.nameIdx = idx
}

// EntityName returns entity's debug name, or "" if none was set.
func (w *World) EntityName(entity EntityId) string {
	slot := w.lookup(entity)
	return w.names.name(slot.nameIdx)
}

// EntityPrefab returns the PrefabId entity was spawned from, or INVALID.
func (w *World) EntityPrefab(entity EntityId) PrefabId {
	slot := w.lookup(entity)
	return slot.prefab
}

// FlushEvents drains the event queue in FIFO order, applying every
// iterator-visible effect: NewEntity transitions NewlySpawned to
// Spawned, NewArchetype extends every Iterating iterator's match list
// whose query accepts the new archetype, and DestroyEntity performs the
// actual free_row and releases the entity slot.
func (w *World) FlushEvents() {
	events := w.events.drain()
	for _, ev := range events {
		switch ev.Kind {
		case EvNewEntity:
			idx := ev.Entity.Index()
			if int(idx) >= len(w.slots) {
				continue
			}
			slot := &w.slots[idx]
			if slot.taken && slot.generation == ev.Entity.Generation() && slot.status == NewlySpawned {
				slot.status = Spawned
			}

		case EvNewArchetype:
			for it := range w.acquired {
				if it.state != Iterating {
					continue
				}
				if ev.Archetype.bits.ContainsAll(it.required) && ev.Archetype.bits.ContainsNone(it.forbidden) {
					it.matches = append(it.matches, ev.Archetype)
				}
			}

		case EvDestroyEntity:
			idx := ev.Entity.Index()
			if int(idx) >= len(w.slots) {
				continue
			}
			slot := &w.slots[idx]
			if !slot.taken || slot.generation != ev.Entity.Generation() {
				continue
			}
			if slot.archetype != nil {
				slot.archetype.destroyRow(slot.row)
				w.freeRowFixup(slot.archetype, slot.row)
			}
			slot.taken = false
			slot.generation++
			slot.archetype = nil
			slot.row = -1
			slot.prefab = PrefabId(INVALID)
			slot.nameIdx = -1
			w.freeSlots = append(w.freeSlots, idx)

		case EvNewComponent, EvUpdateComponent, EvDestroyComponent:
			// No-op in the core; reserved for future index maintenance.
		}
	}
}

// AcquireIterator pops a recycled iterator or allocates a new one,
// transitions it to Initializing, and adds it to the acquired set.
func (w *World) AcquireIterator() *Iterator {
	var it *Iterator
	if n := len(w.iteratorPool); n > 0 {
		it = w.iteratorPool[n-1]
		w.iteratorPool = w.iteratorPool[:n-1]
	} else {
		it = &Iterator{}
	}
	it.world = w
	it.state = Initializing
	it.slots = make(map[int]filterSlot)
	w.acquired[it] = struct{}{}
	return it
}

// ReleaseIterator clears it's query state, transitions it to Released,
// and pushes it to the reuse pool. Releasing an already-released iterator
// is fatal.
func (w *World) ReleaseIterator(it *Iterator) {
	if it.state == Released {
		failState("iterator already released")
	}
	delete(w.acquired, it)
	*it = Iterator{}
	w.iteratorPool = append(w.iteratorPool, it)
}

// WorldStats reports read-only counters useful for diagnostics.
type WorldStats struct {
	ArchetypeCount  int
	LiveEntityCount int
	FreeSlotCount   int
}

// Stats reports the current archetype count, live entity count, and free
// slot count.
func (w *World) Stats() WorldStats {
	live := 0
	for i := range w.slots {
		if w.slots[i].taken {
			live++
		}
	}
	return WorldStats{
		ArchetypeCount:  len(w.archetypes),
		LiveEntityCount: live,
		FreeSlotCount:   len(w.freeSlots),
	}
}

// Free flushes pending events, releases every acquired iterator, destroys
// every archetype column (running each live component's destroy), and
// releases the entity slot table.
func (w *World) Free() {
	w.FlushEvents()
	for it := range w.acquired {
		w.ReleaseIterator(it)
	}
	for _, arch := range w.archetypes {
		arch.destroyAll()
	}
	w.archetypes = nil
	w.archByBits = make(map[mask.Mask]*Archetype)
	w.slots = nil
	w.freeSlots = nil
}
