package genindex

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
	"golang.org/x/exp/constraints"
)

// GenerationOverflowError reports that a slot's generation counter wrapped
// after exhausting its full range of recycles. The spec treats this as
// fatal and unreachable in practice.
type GenerationOverflowError struct {
	Index int
}

func (e GenerationOverflowError) Error() string {
	return fmt.Sprintf("genindex: generation overflow at index %d", e.Index)
}

// isMaxValue reports whether v is the maximum representable value of an
// unsigned integer type, used to detect generation-counter overflow
// generically rather than hardcoding math.MaxUint64.
func isMaxValue[T constraints.Unsigned](v T) bool {
	return v == ^T(0)
}

type slot struct {
	live       bool
	generation uint64
}

// Allocator issues and recycles GenerationalIndex values without
// duplication. Its storage footprint grows only with the high-water mark
// of concurrently live indices, never with the total number of past
// allocations.
type Allocator struct {
	slots []slot
	free  []uint32
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate reuses a freed slot if one is available, otherwise grows the
// slot sequence by one.
func (a *Allocator) Allocate() GenerationalIndex {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		if s.live {
			panic(bark.AddTrace(fmt.Errorf("genindex: free list referenced live slot %d", idx)))
		}
		s.live = true
		return GenerationalIndex{index: idx, generation: s.generation}
	}
	a.slots = append(a.slots, slot{live: true, generation: 0})
	return GenerationalIndex{index: uint32(len(a.slots) - 1), generation: 0}
}

// Deallocate frees gi's slot and bumps its generation. Returns false if
// gi.index is out of range, the slot is already dead, or gi's generation
// does not match the slot's current generation.
func (a *Allocator) Deallocate(gi GenerationalIndex) bool {
	if int(gi.index) >= len(a.slots) {
		return false
	}
	s := &a.slots[gi.index]
	if !s.live || s.generation != gi.generation {
		return false
	}
	s.live = false
	if isMaxValue(s.generation) {
		panic(bark.AddTrace(GenerationOverflowError{Index: int(gi.index)}))
	}
	s.generation++
	a.free = append(a.free, gi.index)
	return true
}

// IsLive reports whether gi refers to a currently allocated slot.
func (a *Allocator) IsLive(gi GenerationalIndex) bool {
	if int(gi.index) >= len(a.slots) {
		return false
	}
	s := a.slots[gi.index]
	return s.live && s.generation == gi.generation
}

// MaxAllocatedIndex returns the number of slots ever allocated. It never
// decreases.
func (a *Allocator) MaxAllocatedIndex() int {
	return len(a.slots)
}

// LiveAtIndex returns the live GenerationalIndex at index, if any. Indices
// past MaxAllocatedIndex always report absent.
func (a *Allocator) LiveAtIndex(index int) (GenerationalIndex, bool) {
	if index < 0 || index >= len(a.slots) {
		return GenerationalIndex{}, false
	}
	s := a.slots[index]
	if !s.live {
		return GenerationalIndex{}, false
	}
	return GenerationalIndex{index: uint32(index), generation: s.generation}, true
}

// Clone returns an independent deep copy of the allocator's state.
func (a *Allocator) Clone() *Allocator {
	clone := &Allocator{
		slots: make([]slot, len(a.slots)),
		free:  make([]uint32, len(a.free)),
	}
	copy(clone.slots, a.slots)
	copy(clone.free, a.free)
	return clone
}
