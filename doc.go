/*
Package silo provides an archetype-based Entity-Component-System (ECS)
runtime for games and simulations.

Silo groups entities by the exact set of components they carry and lays
the group out as columnar storage for cache-friendly iteration. Components
are registered once on a Registry, worlds own entities and archetypes, and
query iterators stream matching rows without touching the event queue on
the hot path.

Core Concepts:

  - Entity: a generation-tagged handle for a game object.
  - Component: a plain value type registered with a Registry.
  - Archetype: the columnar storage for every entity sharing one component set.
  - Prefab: a named template of component defaults used to spawn entities.
  - Iterator: a compiled query bound to a World, streaming matching rows.

Basic Usage:

	registry := silo.Factory.NewRegistry()
	position := silo.RegisterComponent[Position](registry, "Position")
	velocity := silo.RegisterComponent[Velocity](registry, "Velocity")

	world := silo.Factory.NewWorld(registry)
	e := world.SpawnEntity()
	world.AddComponent(e, position.ID())
	world.AddComponent(e, velocity.ID())
	world.FlushEvents()

	it := world.AcquireIterator()
	it.Filter(position.ID(), silo.Access, 0)
	it.Filter(velocity.ID(), silo.Access, 1)
	it.Finalize()
	for it.Advance() {
		pos := (*Position)(it.GetArgument(0))
		vel := (*Velocity)(it.GetArgument(1))
		pos.X += vel.X
		pos.Y += vel.Y
	}
	world.ReleaseIterator(it)

Silo is the storage core beneath a higher-level handle/builder API; that
wrapper, along with hashing and reflection metadata for components, is
out of scope for this package (see DESIGN.md).
*/
package silo
