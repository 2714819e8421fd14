// Package component implements the two component storage backends —
// Dense, a pointer-boxed slice for components nearly every entity carries,
// and Sparse, a B-tree for components only a minority hold — behind a
// common Storage interface the ecs package's registry stores by type.
package component

import "github.com/driftcore/ecs/scan"

// Storage holds one component type's values, indexed by entity slot.
// Get returns *T rather than T so that a value obtained from it stays
// valid and mutable across later Inserts that grow or rebalance the
// underlying structure. Insert takes and hands back plain T values.
type Storage[T any] interface {
	Get(index int) (*T, bool)
	Insert(index int, value T) (old T, displaced bool)
	Remove(index int) (T, bool)
	Scan() scan.Scanner[*T]
}
