package ecs

import (
	"sort"

	"github.com/driftcore/ecs/genindex"
	"github.com/driftcore/ecs/scan"
)

// Entity identifies a row across an Ecs container's component storages. It
// is a thin wrapper over a generational index: stable while live, and
// never mistaken for a reused slot once its generation has moved on.
type Entity struct {
	gi genindex.GenerationalIndex
}

// Index returns the entity's dense slot number, shared by every component
// storage that holds a value for it.
func (e Entity) Index() int { return e.gi.Index() }

// Generation returns the slot's recycle count at the time e was minted.
func (e Entity) Generation() uint64 { return e.gi.Generation() }

// Compare orders entities by index, then generation.
func (e Entity) Compare(other Entity) int { return e.gi.Compare(other.gi) }

func (e Entity) String() string { return e.gi.String() }

// entityScanner scans every currently live entity in ascending index
// order, skipping recycled-but-dead slots.
type entityScanner struct {
	pos       int
	allocator *genindex.Allocator
}

func (s *entityScanner) Scan(until *int) (Entity, int, bool) {
	if until != nil && *until > s.pos {
		s.pos = *until
	}
	for s.pos < s.allocator.MaxAllocatedIndex() {
		if gi, ok := s.allocator.LiveAtIndex(s.pos); ok {
			index := s.pos
			s.pos++
			return Entity{gi: gi}, index, true
		}
		s.pos++
	}
	return Entity{}, 0, false
}

// EntitySet is an ordered collection of entities, kept sorted by index so
// scans over it stay compatible with the scanner algebra's ascending-order
// contract.
type EntitySet struct {
	entities []Entity
}

// NewEntitySet returns an empty EntitySet.
func NewEntitySet() *EntitySet {
	return &EntitySet{}
}

func (s *EntitySet) search(e Entity) int {
	return sort.Search(len(s.entities), func(i int) bool {
		return s.entities[i].gi.Index() >= e.gi.Index()
	})
}

// Add inserts e into the set, keeping the set sorted by index. A member
// already stored at e's index is replaced by e, whatever its generation.
func (s *EntitySet) Add(e Entity) {
	i := s.search(e)
	if i < len(s.entities) && s.entities[i].gi.Index() == e.gi.Index() {
		s.entities[i] = e
		return
	}
	s.entities = append(s.entities, Entity{})
	copy(s.entities[i+1:], s.entities[i:])
	s.entities[i] = e
}

// Remove deletes e's index from the set, if present.
func (s *EntitySet) Remove(e Entity) bool {
	i := s.search(e)
	if i >= len(s.entities) || s.entities[i].gi.Index() != e.gi.Index() {
		return false
	}
	s.entities = append(s.entities[:i], s.entities[i+1:]...)
	return true
}

// Contains reports whether e's index is a member, regardless of the
// member's stored generation.
func (s *EntitySet) Contains(e Entity) bool {
	i := s.search(e)
	return i < len(s.entities) && s.entities[i].gi.Index() == e.gi.Index()
}

// Len returns the number of members.
func (s *EntitySet) Len() int { return len(s.entities) }

// All returns the set's members in ascending index order.
func (s *EntitySet) All() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// entitySetScanner scans a set's members that are still live, in
// ascending index order.
type entitySetScanner struct {
	entities  []Entity
	pos       int
	allocator *genindex.Allocator
}

func (s *entitySetScanner) Scan(until *int) (Entity, int, bool) {
	floor := 0
	if until != nil {
		floor = *until
	}
	for s.pos < len(s.entities) {
		e := s.entities[s.pos]
		if e.gi.Index() < floor {
			s.pos++
			continue
		}
		s.pos++
		if s.allocator.IsLive(e.gi) {
			return e, e.gi.Index(), true
		}
	}
	return Entity{}, 0, false
}

var _ scan.Scanner[Entity] = (*entityScanner)(nil)
var _ scan.Scanner[Entity] = (*entitySetScanner)(nil)
