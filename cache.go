package silo

import "fmt"

// nameCache interns entity debug names so the entity slot table stores a
// small index rather than a string, capped at a fixed capacity.
type nameCache struct {
	items       []string
	itemIndices map[string]int
	maxCapacity int
}

func newNameCache(capacity int) *nameCache {
	return &nameCache{
		itemIndices: make(map[string]int),
		maxCapacity: capacity,
	}
}

// intern returns the index for name, registering it if this is the first
// time it has been seen.
func (c *nameCache) intern(name string) (int, error) {
	if idx, ok := c.itemIndices[name]; ok {
		return idx, nil
	}
	if len(c.items) >= c.maxCapacity {
		return -1, fmt.Errorf("name cache at maximum capacity (%d)", c.maxCapacity)
	}
	idx := len(c.items)
	c.items = append(c.items, name)
	c.itemIndices[name] = idx
	return idx, nil
}

// name returns the interned string at idx, or "" if idx is out of range.
func (c *nameCache) name(idx int) string {
	if idx < 0 || idx >= len(c.items) {
		return ""
	}
	return c.items[idx]
}
