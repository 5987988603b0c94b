package silo

import (
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// prefabEntry is one (component, owned blob) pair stored on a prefab
// template. blob is a heap allocation sized to the component's registered
// size; it is never moved, only copied out of, at spawn time.
type prefabEntry struct {
	component ComponentId
	blob      []byte
}

type prefabSlot struct {
	taken      bool
	generation uint8
	bits       mask.Mask
	entries    []prefabEntry
}

// CreatePrefab allocates an empty, generation-tagged prefab template.
func (r *Registry) CreatePrefab() PrefabId {
	var idx uint32
	if n := len(r.freePrefabs); n > 0 {
		idx = r.freePrefabs[n-1]
		r.freePrefabs = r.freePrefabs[:n-1]
	} else {
		idx = uint32(len(r.prefabs))
		r.prefabs = append(r.prefabs, prefabSlot{})
	}
	slot := &r.prefabs[idx]
	slot.taken = true
	slot.bits = mask.Mask{}
	slot.entries = nil
	return PrefabId(packHandle(idx, slot.generation))
}

func (r *Registry) prefabSlotFor(p PrefabId) *prefabSlot {
	if !p.Valid() {
		failHandle("invalid prefab handle")
	}
	idx := p.Index()
	if int(idx) >= len(r.prefabs) {
		failHandle("unknown prefab index")
	}
	slot := &r.prefabs[idx]
	if !slot.taken || slot.generation != p.Generation() {
		failHandle("stale prefab handle")
	}
	return slot
}

// PrefabBits returns the aggregate component bitset for p.
func (r *Registry) PrefabBits(p PrefabId) mask.Mask {
	return r.prefabSlotFor(p).bits
}

// PrefabAddComponent is idempotent per component: it allocates (or
// reuses) the component's blob inside the prefab, then applies
// defaultValue via the component's Copy (or bytewise copy) when provided,
// or Init (or zero-fill) otherwise.
func (r *Registry) PrefabAddComponent(p PrefabId, c ComponentId, defaultValue unsafe.Pointer) {
	slot := r.prefabSlotFor(p)
	info := r.componentInfo(c)
	for i := range slot.entries {
		if slot.entries[i].component == c {
			applyPrefabDefault(info, unsafe.Pointer(&slot.entries[i].blob[0]), defaultValue)
			slot.bits.Mark(uint32(c))
			return
		}
	}
	blob := make([]byte, info.size)
	applyPrefabDefault(info, unsafe.Pointer(&blob[0]), defaultValue)
	slot.entries = append(slot.entries, prefabEntry{component: c, blob: blob})
	slot.bits.Mark(uint32(c))
}

func applyPrefabDefault(info *ComponentInfo, dst unsafe.Pointer, defaultValue unsafe.Pointer) {
	if defaultValue != nil {
		if info.callbacks.Copy != nil {
			info.callbacks.Copy(defaultValue, dst, info.size)
		} else {
			copyBytes(dst, defaultValue, info.size)
		}
		return
	}
	if info.callbacks.Init != nil {
		info.callbacks.Init(dst)
	} else {
		zeroBytes(dst, info.size)
	}
}

// PrefabGetComponent returns a pointer to component c's blob on p. Panics
// if c is not present on the prefab.
func (r *Registry) PrefabGetComponent(p PrefabId, c ComponentId) unsafe.Pointer {
	slot := r.prefabSlotFor(p)
	for i := range slot.entries {
		if slot.entries[i].component == c {
			return unsafe.Pointer(&slot.entries[i].blob[0])
		}
	}
	failNotFound("component not present on prefab")
	return nil
}

// PrefabRemoveComponent destroys component c's blob via its Destroy
// callback, frees it, and clears the bit. Panics if c was not present.
func (r *Registry) PrefabRemoveComponent(p PrefabId, c ComponentId) {
	slot := r.prefabSlotFor(p)
	info := r.componentInfo(c)
	for i := range slot.entries {
		if slot.entries[i].component == c {
			if info.callbacks.Destroy != nil {
				info.callbacks.Destroy(unsafe.Pointer(&slot.entries[i].blob[0]))
			}
			slot.entries = append(slot.entries[:i], slot.entries[i+1:]...)
			slot.bits.Unmark(uint32(c))
			return
		}
	}
	failNotFound("component not present on prefab")
}

// DestroyPrefab destroys every blob on p via its component's Destroy
// callback and releases the prefab slot for reuse.
func (r *Registry) DestroyPrefab(p PrefabId) {
	slot := r.prefabSlotFor(p)
	for i := range slot.entries {
		info := r.componentInfo(slot.entries[i].component)
		if info.callbacks.Destroy != nil {
			info.callbacks.Destroy(unsafe.Pointer(&slot.entries[i].blob[0]))
		}
	}
	idx := p.Index()
	slot.taken = false
	slot.generation++
	slot.entries = nil
	slot.bits = mask.Mask{}
	r.freePrefabs = append(r.freePrefabs, idx)
}
