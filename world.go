package ecs

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
	"github.com/driftcore/ecs/ecserr"
)

type resourceEntry struct {
	mu    sync.RWMutex
	value any
}

// World pairs an Ecs container with a set of singleton resources, and
// records in a Mask256 which resource/component types MultiLock has
// locked, for diagnostics only (see LockedSlots). The mask never blocks
// or refuses an acquisition; each resource and storage is guarded by its
// own sync.RWMutex.
type World struct {
	ecs *Ecs

	mu        sync.Mutex
	resources map[reflect.Type]*resourceEntry

	lockMu   sync.Mutex
	slots    map[reflect.Type]uint32
	nextSlot uint32
	locked   mask.Mask256
}

func newWorld() *World {
	return &World{
		ecs:       NewEcs(),
		resources: make(map[reflect.Type]*resourceEntry),
		slots:     make(map[reflect.Type]uint32),
	}
}

// Ecs returns the world's component container. Go's prohibition on
// function overloading means ecs package functions can't be duplicated
// under World with the same names; call them directly against w.Ecs(),
// e.g. ecs.RegisterComponent[Position](w.Ecs()).
func (w *World) Ecs() *Ecs { return w.ecs }

// InsertResource stores value as T's resource, returning the resource it
// replaced, if any.
func InsertResource[T any](w *World, value T) (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := reflect.TypeFor[T]()
	var old T
	prev, existed := w.resources[t]
	if existed {
		old = prev.value.(T)
	}
	w.resources[t] = &resourceEntry{value: value}
	return old, existed
}

// RemoveResource deletes T's resource, returning it if present.
func RemoveResource[T any](w *World) (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := reflect.TypeFor[T]()
	var zero T
	prev, ok := w.resources[t]
	if !ok {
		return zero, false
	}
	delete(w.resources, t)
	return prev.value.(T), true
}

func (w *World) lookupResource(t reflect.Type) (*resourceEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.resources[t]
	if !ok {
		return nil, ecserr.ResourceNotFoundError{Type: t}
	}
	return entry, nil
}

// ResourceReadHandle grants shared read access to one resource. Call
// Release when done.
type ResourceReadHandle[T any] struct {
	entry   *resourceEntry
	release func()
}

func (h *ResourceReadHandle[T]) Get() T    { return h.entry.value.(T) }
func (h *ResourceReadHandle[T]) Release()   { h.release() }

// ResourceWriteHandle grants exclusive access to one resource. Call
// Release when done.
type ResourceWriteHandle[T any] struct {
	entry   *resourceEntry
	release func()
}

func (h *ResourceWriteHandle[T]) Get() T        { return h.entry.value.(T) }
func (h *ResourceWriteHandle[T]) Set(value T)   { h.entry.value = value }
func (h *ResourceWriteHandle[T]) Release()      { h.release() }

// ReadResource acquires a read lock on T's resource. Fails if T is not
// present in the world.
func ReadResource[T any](w *World) (*ResourceReadHandle[T], error) {
	entry, err := w.lookupResource(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	return &ResourceReadHandle[T]{entry: entry, release: entry.mu.RUnlock}, nil
}

// WriteResource acquires a write lock on T's resource. Fails if T is not
// present in the world.
func WriteResource[T any](w *World) (*ResourceWriteHandle[T], error) {
	entry, err := w.lookupResource(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	return &ResourceWriteHandle[T]{entry: entry, release: entry.mu.Unlock}, nil
}

// slot lazily assigns type t a bit position in the world's lock-tracking
// mask, for diagnostic purposes — it never gates correctness, only feeds
// LockedSlots.
func (w *World) slot(t reflect.Type) uint32 {
	w.lockMu.Lock()
	defer w.lockMu.Unlock()
	if s, ok := w.slots[t]; ok {
		return s
	}
	if w.nextSlot >= 256 {
		panic(bark.AddTrace(fmt.Errorf("ecs: world has locked more than 256 distinct resource/component types")))
	}
	s := w.nextSlot
	w.slots[t] = s
	w.nextSlot++
	return s
}

func (w *World) markLocked(bit uint32) {
	w.lockMu.Lock()
	defer w.lockMu.Unlock()
	w.locked.Mark(bit)
}

func (w *World) markUnlocked(bit uint32) {
	w.lockMu.Lock()
	defer w.lockMu.Unlock()
	w.locked.Unmark(bit)
}

// LockedSlots returns a snapshot of which lock slots are currently held,
// keyed by the bit positions slot has assigned to locked types.
func (w *World) LockedSlots() mask.Mask256 {
	w.lockMu.Lock()
	defer w.lockMu.Unlock()
	return w.locked
}
