package silo

// Config holds global configuration for the silo runtime.
var Config config = config{
	archetypeInitialCapacity: 8,
	iteratorPoolInitialCap:   4,
	nameCacheCapacity:        1024,
}

type config struct {
	// archetypeInitialCapacity is the number of rows a freshly created
	// archetype's columns are pre-sized for before the first grow.
	archetypeInitialCapacity int

	// iteratorPoolInitialCap is the number of iterators a World
	// pre-allocates its reuse pool for.
	iteratorPoolInitialCap int

	// nameCacheCapacity bounds the debug-name intern cache every World uses.
	nameCacheCapacity int
}

// SetArchetypeInitialCapacity configures the starting column capacity for
// newly created archetypes.
func (c *config) SetArchetypeInitialCapacity(n int) {
	c.archetypeInitialCapacity = n
}

// SetIteratorPoolInitialCapacity configures how many iterators a World
// pre-allocates in its reuse pool.
func (c *config) SetIteratorPoolInitialCapacity(n int) {
	c.iteratorPoolInitialCap = n
}

// SetNameCacheCapacity configures the capacity of the debug-name intern
// cache used by World.SetEntityName.
func (c *config) SetNameCacheCapacity(n int) {
	c.nameCacheCapacity = n
}
