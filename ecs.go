package ecs

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
	"github.com/driftcore/ecs/component"
	"github.com/driftcore/ecs/ecserr"
	"github.com/driftcore/ecs/genindex"
	"github.com/driftcore/ecs/scan"
	"golang.org/x/sync/errgroup"
)

// componentEntry type-erases a storageEntry[T] so Ecs can keep every
// registered component type in one map despite Go's lack of generic
// methods. Each method takes an int index and operates through a Bundle,
// never needing the caller to name T.
type componentEntry interface {
	insertFromBundle(index int, b *Bundle) bool
	removeIntoBundle(index int, b *Bundle) bool
	cloneIntoBundle(index int, b *Bundle) bool
	cloneLocked() func() componentEntry
}

type storageEntry[T any] struct {
	mu      sync.RWMutex
	storage component.Storage[T]
}

func (s *storageEntry[T]) insertFromBundle(index int, b *Bundle) bool {
	raw, ok := b.take(reflect.TypeFor[T]())
	if !ok {
		return false
	}
	s.mu.Lock()
	s.storage.Insert(index, raw.(T))
	s.mu.Unlock()
	return true
}

func (s *storageEntry[T]) removeIntoBundle(index int, b *Bundle) bool {
	s.mu.Lock()
	val, ok := s.storage.Remove(index)
	s.mu.Unlock()
	if !ok {
		return false
	}
	b.put(val)
	return true
}

func (s *storageEntry[T]) cloneIntoBundle(index int, b *Bundle) bool {
	s.mu.RLock()
	ptr, ok := s.storage.Get(index)
	var val T
	if ok {
		val = *ptr
	}
	s.mu.RUnlock()
	if !ok {
		return false
	}
	b.put(val)
	return true
}

func (s *storageEntry[T]) cloneLocked() func() componentEntry {
	return func() componentEntry {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return &storageEntry[T]{storage: cloneStorage(s.storage)}
	}
}

// cloneStorage dispatches to the concrete backend's own Clone, since
// component.Storage exposes no Clone method of its own.
func cloneStorage[T any](s component.Storage[T]) component.Storage[T] {
	switch st := s.(type) {
	case *component.Dense[T]:
		return st.Clone()
	case *component.Sparse[T]:
		return st.Clone()
	default:
		panic(bark.AddTrace(fmt.Errorf("ecs: unknown storage backend %T", s)))
	}
}

// Ecs is a registry of component storages sharing one entity index space.
// Every registered type is locked independently, so readers and writers of
// different component types never contend with one another.
type Ecs struct {
	mu        sync.Mutex
	allocator *genindex.Allocator
	entries   map[reflect.Type]componentEntry
	order     []reflect.Type
}

// NewEcs returns an empty container with no entities and no registered
// component types.
func NewEcs() *Ecs {
	return &Ecs{
		allocator: genindex.NewAllocator(),
		entries:   make(map[reflect.Type]componentEntry),
	}
}

// RegisterComponent registers T using the package's default storage
// backend (see Config.SetDefaultStorage). A no-op if T is already
// registered.
func RegisterComponent[T any](e *Ecs) {
	RegisterComponentAs[T](e, Config.denseByDefault)
}

// RegisterComponentAs registers T, choosing Dense storage when dense is
// true and Sparse storage otherwise. A no-op if T is already registered.
func RegisterComponentAs[T any](e *Ecs, dense bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := reflect.TypeFor[T]()
	if _, exists := e.entries[t]; exists {
		return
	}
	var storage component.Storage[T]
	if dense {
		storage = component.NewDense[T]()
	} else {
		storage = component.NewSparse[T]()
	}
	e.entries[t] = &storageEntry[T]{storage: storage}
	e.order = append(e.order, t)
}

func (e *Ecs) orderedEntries() []componentEntry {
	out := make([]componentEntry, len(e.order))
	for i, t := range e.order {
		out[i] = e.entries[t]
	}
	return out
}

// AddEntity allocates a new entity and inserts every bundle value whose
// type is registered. The entity is allocated even if the bundle names an
// unregistered type: the caller still gets a live entity back, with the
// unregistered values reported via the returned error and left untouched
// in bundle for inspection (see DESIGN.md's note on partial-insert
// semantics).
func AddEntity(e *Ecs, bundle *Bundle) (Entity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gi := e.allocator.Allocate()
	entity := Entity{gi: gi}

	for _, entry := range e.orderedEntries() {
		entry.insertFromBundle(gi.Index(), bundle)
	}

	if !bundle.Empty() {
		for _, t := range bundle.Types() {
			return entity, ecserr.UnregisteredComponentError{Type: t}
		}
	}
	return entity, nil
}

// InsertComponents inserts every bundle value whose type is registered
// onto the given entity, leaving unregistered types in the returned
// bundle. A no-op (returning bundle unchanged) if entity is not live.
func InsertComponents(e *Ecs, entity Entity, bundle *Bundle) (*Bundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.allocator.IsLive(entity.gi) {
		return bundle, nil
	}

	for _, entry := range e.orderedEntries() {
		entry.insertFromBundle(entity.Index(), bundle)
	}

	if !bundle.Empty() {
		for _, t := range bundle.Types() {
			return bundle, ecserr.UnregisteredComponentError{Type: t}
		}
	}
	return bundle, nil
}

// RemoveEntity deallocates entity and returns every component value it
// held, bundled for inspection or reinsertion elsewhere. Returns an empty
// bundle if entity was not live.
func RemoveEntity(e *Ecs, entity Entity) *Bundle {
	e.mu.Lock()
	defer e.mu.Unlock()

	bundle := NewBundle()
	if !e.allocator.IsLive(entity.gi) {
		return bundle
	}
	for _, entry := range e.orderedEntries() {
		entry.removeIntoBundle(entity.Index(), bundle)
	}
	e.allocator.Deallocate(entity.gi)
	return bundle
}

// EntityIsLive reports whether entity refers to a currently allocated
// slot under its exact generation.
func EntityIsLive(e *Ecs, entity Entity) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.allocator.IsLive(entity.gi)
}

// CloneEntityComponents copies every component value entity currently
// holds into a fresh Bundle, leaving the original storages untouched.
// Returns an empty bundle if entity is not live.
func CloneEntityComponents(e *Ecs, entity Entity) *Bundle {
	e.mu.Lock()
	defer e.mu.Unlock()
	bundle := NewBundle()
	if !e.allocator.IsLive(entity.gi) {
		return bundle
	}
	for _, entry := range e.orderedEntries() {
		entry.cloneIntoBundle(entity.Index(), bundle)
	}
	return bundle
}

// ScanEntities returns a scanner over every currently live entity, in
// ascending index order.
func ScanEntities(e *Ecs) scan.Scanner[Entity] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &entityScanner{allocator: e.allocator}
}

// ScanEntitySet returns a scanner over set's members that are still live,
// in ascending index order. Dead members are skipped, not removed; call
// PruneEntitySet to drop them from the set itself.
func ScanEntitySet(e *Ecs, set *EntitySet) scan.Scanner[Entity] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &entitySetScanner{entities: set.All(), allocator: e.allocator}
}

// PruneEntitySet removes every member of set that is no longer live.
func PruneEntitySet(e *Ecs, set *EntitySet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ent := range set.All() {
		if !e.allocator.IsLive(ent.gi) {
			set.Remove(ent)
		}
	}
}

// InsertOutcome describes what WriteHandle.Insert did to a storage slot.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	Updated
	EntityIsDead
)

// InsertResult reports the outcome of a WriteHandle.Insert call. Value
// carries the displaced value when Outcome is Updated, or the value the
// caller tried to insert, handed back untouched, when Outcome is
// EntityIsDead.
type InsertResult[T any] struct {
	Outcome InsertOutcome
	Value   T
}

// ReadHandle grants shared, concurrent read access to one component
// type's storage, mediated by entity liveness: every lookup is checked
// against the container's allocator at the time of the lookup, so a
// stale or recycled Entity can never read another entity's slot. Call
// Release when done.
type ReadHandle[T any] struct {
	entry     *storageEntry[T]
	allocator *genindex.Allocator
	release   func()
}

func (h *ReadHandle[T]) Get(entity Entity) (*T, bool) {
	if !h.allocator.IsLive(entity.gi) {
		return nil, false
	}
	return h.entry.storage.Get(entity.Index())
}
func (h *ReadHandle[T]) Scan() scan.Scanner[*T] { return h.entry.storage.Scan() }
func (h *ReadHandle[T]) Release()               { h.release() }

// WriteHandle grants exclusive access to one component type's storage,
// mediated by entity liveness the same way ReadHandle is. Get returns the
// live *T a caller can mutate in place (the pointer-box storage design
// keeps it valid across later Inserts on other indices). Call Release
// when done.
type WriteHandle[T any] struct {
	entry     *storageEntry[T]
	allocator *genindex.Allocator
	release   func()
}

func (h *WriteHandle[T]) Get(entity Entity) (*T, bool) {
	if !h.allocator.IsLive(entity.gi) {
		return nil, false
	}
	return h.entry.storage.Get(entity.Index())
}
func (h *WriteHandle[T]) Scan() scan.Scanner[*T] { return h.entry.storage.Scan() }

// Insert writes value onto entity's slot. If entity is not live, value is
// handed back unchanged via InsertResult.Value and the storage is left
// untouched.
func (h *WriteHandle[T]) Insert(entity Entity, value T) InsertResult[T] {
	if !h.allocator.IsLive(entity.gi) {
		return InsertResult[T]{Outcome: EntityIsDead, Value: value}
	}
	old, displaced := h.entry.storage.Insert(entity.Index(), value)
	outcome := Inserted
	if displaced {
		outcome = Updated
	}
	return InsertResult[T]{Outcome: outcome, Value: old}
}

// Remove deletes entity's value from the storage, if entity is live and
// holds one.
func (h *WriteHandle[T]) Remove(entity Entity) (T, bool) {
	if !h.allocator.IsLive(entity.gi) {
		var zero T
		return zero, false
	}
	return h.entry.storage.Remove(entity.Index())
}
func (h *WriteHandle[T]) Release() { h.release() }

func lookup[T any](e *Ecs) (*storageEntry[T], error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := reflect.TypeFor[T]()
	entry, ok := e.entries[t]
	if !ok {
		return nil, ecserr.UnregisteredComponentError{Type: t}
	}
	se, ok := entry.(*storageEntry[T])
	if !ok {
		panic(bark.AddTrace(fmt.Errorf("ecs: registry entry for %s has an unexpected concrete type", t)))
	}
	return se, nil
}

// ReadComponent acquires a read lock on T's storage and returns a handle
// to it. Fails if T was never registered.
func ReadComponent[T any](e *Ecs) (*ReadHandle[T], error) {
	se, err := lookup[T](e)
	if err != nil {
		return nil, err
	}
	se.mu.RLock()
	return &ReadHandle[T]{entry: se, allocator: e.allocator, release: se.mu.RUnlock}, nil
}

// WriteComponent acquires a write lock on T's storage and returns a
// handle to it. Fails if T was never registered.
func WriteComponent[T any](e *Ecs) (*WriteHandle[T], error) {
	se, err := lookup[T](e)
	if err != nil {
		return nil, err
	}
	se.mu.Lock()
	return &WriteHandle[T]{entry: se, allocator: e.allocator, release: se.mu.Unlock}, nil
}

// Clone takes a consistent snapshot of every registered storage and the
// entity allocator, cloning storages concurrently via errgroup since each
// one only needs its own read lock. The clone shares no mutable state
// with the original.
func (e *Ecs) Clone() *Ecs {
	e.mu.Lock()
	thunks := make(map[reflect.Type]func() componentEntry, len(e.entries))
	for t, entry := range e.entries {
		thunks[t] = entry.cloneLocked()
	}
	order := append([]reflect.Type(nil), e.order...)
	allocatorClone := e.allocator.Clone()
	e.mu.Unlock()

	results := make(map[reflect.Type]componentEntry, len(thunks))
	var resultsMu sync.Mutex
	var g errgroup.Group
	for t, thunk := range thunks {
		t, thunk := t, thunk
		g.Go(func() error {
			cloned := thunk()
			resultsMu.Lock()
			results[t] = cloned
			resultsMu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // cloneLocked's closures never return an error

	return &Ecs{allocator: allocatorClone, entries: results, order: order}
}
