package component

import (
	"github.com/driftcore/ecs/scan"
	"github.com/google/btree"
)

// sparseDegree governs the B-tree's branching factor; 32 matches the
// degree the B-tree's own benchmarks settle on for small, comparable keys.
const sparseDegree = 32

type sparseItem[T any] struct {
	index int
	value *T
}

func sparseLess[T any](a, b sparseItem[T]) bool {
	return a.index < b.index
}

// Sparse stores a component only a minority of entities carry, in a
// B-tree keyed by entity slot. Values are boxed so a *T returned by Get
// stays valid across tree rebalancing triggered by later inserts.
type Sparse[T any] struct {
	tree *btree.BTreeG[sparseItem[T]]
}

// NewSparse returns an empty Sparse storage.
func NewSparse[T any]() *Sparse[T] {
	return &Sparse[T]{tree: btree.NewG(sparseDegree, sparseLess[T])}
}

func (s *Sparse[T]) Get(index int) (*T, bool) {
	item, ok := s.tree.Get(sparseItem[T]{index: index})
	if !ok {
		return nil, false
	}
	return item.value, true
}

func (s *Sparse[T]) Insert(index int, value T) (T, bool) {
	var old T
	displaced := false
	if prev, ok := s.tree.Get(sparseItem[T]{index: index}); ok {
		old = *prev.value
		displaced = true
	}
	boxed := new(T)
	*boxed = value
	s.tree.ReplaceOrInsert(sparseItem[T]{index: index, value: boxed})
	return old, displaced
}

func (s *Sparse[T]) Remove(index int) (T, bool) {
	var zero T
	item, ok := s.tree.Delete(sparseItem[T]{index: index})
	if !ok {
		return zero, false
	}
	return *item.value, true
}

func (s *Sparse[T]) Scan() scan.Scanner[*T] {
	return &sparseScanner[T]{tree: s.tree}
}

// Clone returns an independent deep copy by cloning the B-tree (a cheap,
// structure-sharing copy-on-write operation) and then deep-copying every
// boxed value so mutations through the clone never alias the original.
func (s *Sparse[T]) Clone() *Sparse[T] {
	cloned := s.tree.Clone()
	rebuilt := btree.NewG(sparseDegree, sparseLess[T])
	cloned.Ascend(func(item sparseItem[T]) bool {
		boxed := new(T)
		*boxed = *item.value
		rebuilt.ReplaceOrInsert(sparseItem[T]{index: item.index, value: boxed})
		return true
	})
	return &Sparse[T]{tree: rebuilt}
}

// sparseScanner re-seeks the tree on every Scan call via
// AscendGreaterOrEqual, mirroring the reference implementation's habit of
// recreating its B-tree range iterator on each scan rather than holding a
// live cursor across calls.
type sparseScanner[T any] struct {
	tree *btree.BTreeG[sparseItem[T]]
	pos  int
}

func (s *sparseScanner[T]) Scan(until *int) (*T, int, bool) {
	if until != nil && *until > s.pos {
		s.pos = *until
	}
	var found sparseItem[T]
	ok := false
	s.tree.AscendGreaterOrEqual(sparseItem[T]{index: s.pos}, func(item sparseItem[T]) bool {
		found = item
		ok = true
		return false
	})
	if !ok {
		return nil, 0, false
	}
	s.pos = found.index + 1
	return found.value, found.index, true
}
