/*
Package ecs provides a small, library-style Entity-Component-System core
built around generational indices and a composable scanner algebra, rather
than archetype-based storage.

It favors predictable, per-type locking and explicit, index-ordered scans
over cache-optimal archetype layout: component storages are independent,
lock independently, and entities are stable generational identities rather
than rows in a shared table.

Core Concepts:

  - Entity: a generational index — an (index, generation) pair stable
    across recycling, minted and freed by an Ecs container's allocator.
  - Component storage: a Dense (slice-backed) or Sparse (B-tree-backed)
    map from entity index to value, registered per type on an Ecs.
  - Scanner: a stateful, forward-only cursor over one storage's values in
    ascending index order, composed with Map, Join2..Join6, Opt, Not, and
    Limit into multi-component queries without buffering.
  - World: an Ecs plus a set of singleton resources, with a deadlock-free
    MultiLock for acquiring several resource/component locks at once.

Basic Usage:

	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	world := ecs.Factory.NewWorld()
	ecs.RegisterComponent[Position](world.Ecs())
	ecs.RegisterComponent[Velocity](world.Ecs())

	entity, _ := ecs.AddEntity(world.Ecs(), ecs.NewBundle().
		With(Position{X: 0, Y: 0}).
		With(Velocity{X: 1, Y: 1}))

	positions, _ := ecs.ReadComponent[Position](world.Ecs())
	velocities, _ := ecs.ReadComponent[Velocity](world.Ecs())
	defer positions.Release()
	defer velocities.Release()

	joined := scan.Join2(positions.Scan(), velocities.Scan())
	for pair := range scan.Iter(joined) {
		_ = pair.First.X + pair.Second.X
	}
	_ = entity
*/
package ecs
