package genindex

import "testing"

func TestAllocateIsUnique(t *testing.T) {
	a := NewAllocator()
	e0 := a.Allocate()
	e1 := a.Allocate()
	e2 := a.Allocate()

	seen := map[GenerationalIndex]bool{}
	for _, e := range []GenerationalIndex{e0, e1, e2} {
		if seen[e] {
			t.Fatalf("duplicate allocation: %v", e)
		}
		seen[e] = true
	}
}

func TestEntityReuseScenario(t *testing.T) {
	a := NewAllocator()
	a.Allocate() // e0
	e1 := a.Allocate()
	a.Allocate() // e2

	if !a.Deallocate(e1) {
		t.Fatal("deallocate(e1) should succeed")
	}

	e1b := a.Allocate()

	if e1 == e1b {
		t.Errorf("reused index should not compare equal to its prior incarnation")
	}
	if e1.Index() != e1b.Index() {
		t.Errorf("reused allocation should land on the freed index: got %d, want %d", e1b.Index(), e1.Index())
	}
	if e1b.Generation() != e1.Generation()+1 {
		t.Errorf("reused allocation should bump generation: got %d, want %d", e1b.Generation(), e1.Generation()+1)
	}
	if a.IsLive(e1) {
		t.Error("stale entity should not be live")
	}
	if !a.IsLive(e1b) {
		t.Error("reused entity should be live")
	}
}

func TestDeallocateOutOfRange(t *testing.T) {
	a := NewAllocator()
	stale := GenerationalIndex{index: 42}
	if a.Deallocate(stale) {
		t.Error("deallocate on an index never allocated should fail")
	}
}

func TestDeallocateAlreadyDead(t *testing.T) {
	a := NewAllocator()
	e := a.Allocate()
	if !a.Deallocate(e) {
		t.Fatal("first deallocate should succeed")
	}
	if a.Deallocate(e) {
		t.Error("second deallocate of the same entity should fail")
	}
}

func TestDeallocateStaleGeneration(t *testing.T) {
	a := NewAllocator()
	e := a.Allocate()
	a.Deallocate(e)
	reused := a.Allocate()
	if reused.Index() != e.Index() {
		t.Fatal("expected index reuse")
	}
	// Deallocating with the old, stale generation must fail: the slot is
	// live again under a newer generation.
	if a.Deallocate(e) {
		t.Error("deallocate with stale generation on a live slot should fail")
	}
	if !a.IsLive(reused) {
		t.Error("reused entity should remain live after the stale deallocate attempt")
	}
}

func TestMaxAllocatedIndexMonotonic(t *testing.T) {
	a := NewAllocator()
	if a.MaxAllocatedIndex() != 0 {
		t.Fatalf("fresh allocator should report 0, got %d", a.MaxAllocatedIndex())
	}
	e := a.Allocate()
	if a.MaxAllocatedIndex() != 1 {
		t.Fatalf("expected 1 after one allocation, got %d", a.MaxAllocatedIndex())
	}
	a.Deallocate(e)
	a.Allocate()
	if a.MaxAllocatedIndex() != 1 {
		t.Fatalf("recycling should not grow MaxAllocatedIndex, got %d", a.MaxAllocatedIndex())
	}
	a.Allocate()
	if a.MaxAllocatedIndex() != 2 {
		t.Fatalf("a second new slot should grow MaxAllocatedIndex, got %d", a.MaxAllocatedIndex())
	}
}

func TestLiveAtIndex(t *testing.T) {
	a := NewAllocator()
	e0 := a.Allocate()
	e1 := a.Allocate()
	a.Deallocate(e0)

	if _, ok := a.LiveAtIndex(e0.Index()); ok {
		t.Error("dead slot should not report live")
	}
	got, ok := a.LiveAtIndex(e1.Index())
	if !ok || got != e1 {
		t.Errorf("LiveAtIndex(%d) = (%v, %v), want (%v, true)", e1.Index(), got, ok, e1)
	}
	if _, ok := a.LiveAtIndex(100); ok {
		t.Error("out-of-range index should not report live")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := NewAllocator()
	e0 := a.Allocate()
	clone := a.Clone()

	a.Deallocate(e0)
	if !clone.IsLive(e0) {
		t.Error("mutating the original should not affect the clone")
	}

	e1 := clone.Allocate()
	if a.IsLive(e1) {
		t.Error("mutating the clone should not affect the original")
	}
}
