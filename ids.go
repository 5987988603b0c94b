package silo

// INVALID is the all-ones sentinel shared by EntityId, ComponentId and PrefabId.
const INVALID = 0xFFFFFFFF

// indexBits is the width of the dense index packed into an EntityId/PrefabId;
// the remaining high byte is the generation tag.
const (
	indexBits      = 24
	indexMask      = 1<<indexBits - 1
	generationMask = 0xFF
)

// EntityId is a packed (index, generation) handle. The low 24 bits are a
// dense index into the world's entity slot table; the high 8 bits are a
// generation tag used to detect stale handles after the slot is reused.
type EntityId uint32

// ComponentId is a dense index into a Registry's component table.
type ComponentId uint32

// PrefabId is a packed (index, generation) handle into a Registry's prefab
// table, generation-tagged the same way as EntityId.
type PrefabId uint32

func packHandle(index uint32, generation uint8) uint32 {
	return (index & indexMask) | (uint32(generation) << indexBits)
}

func unpackHandle(handle uint32) (index uint32, generation uint8) {
	return handle & indexMask, uint8(handle >> indexBits & generationMask)
}

// Index returns the dense slot index encoded in the handle.
func (e EntityId) Index() uint32 {
	index, _ := unpackHandle(uint32(e))
	return index
}

// Generation returns the generation tag encoded in the handle.
func (e EntityId) Generation() uint8 {
	_, generation := unpackHandle(uint32(e))
	return generation
}

// Valid reports whether the handle is anything other than the sentinel.
func (e EntityId) Valid() bool {
	return e != INVALID
}

// Index returns the dense slot index encoded in the handle.
func (p PrefabId) Index() uint32 {
	index, _ := unpackHandle(uint32(p))
	return index
}

// Generation returns the generation tag encoded in the handle.
func (p PrefabId) Generation() uint8 {
	_, generation := unpackHandle(uint32(p))
	return generation
}

// Valid reports whether the handle is anything other than the sentinel.
func (p PrefabId) Valid() bool {
	return p != INVALID
}
