package ecs

import "testing"

func TestEntitySetAddRemoveContains(t *testing.T) {
	s := NewEntitySet()
	ecsContainer := NewEcs()
	e0, _ := AddEntity(ecsContainer, NewBundle())
	e1, _ := AddEntity(ecsContainer, NewBundle())
	e2, _ := AddEntity(ecsContainer, NewBundle())

	s.Add(e2)
	s.Add(e0)
	s.Add(e1)

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	all := s.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Index() >= all[i].Index() {
			t.Fatalf("All() not in ascending index order: %v", all)
		}
	}

	if !s.Contains(e1) {
		t.Error("set should contain e1")
	}
	if !s.Remove(e1) {
		t.Error("Remove(e1) should succeed")
	}
	if s.Contains(e1) {
		t.Error("set should no longer contain e1")
	}
	if s.Remove(e1) {
		t.Error("second Remove(e1) should report false")
	}
}

func TestPruneEntitySetDropsDeadMembers(t *testing.T) {
	ecsContainer := NewEcs()
	set := NewEntitySet()
	e0, _ := AddEntity(ecsContainer, NewBundle())
	e1, _ := AddEntity(ecsContainer, NewBundle())
	set.Add(e0)
	set.Add(e1)

	RemoveEntity(ecsContainer, e0)
	PruneEntitySet(ecsContainer, set)

	if set.Contains(e0) {
		t.Error("pruning should drop the dead entity")
	}
	if !set.Contains(e1) {
		t.Error("pruning should keep the live entity")
	}
}

func TestScanEntitySetSkipsDeadWithoutMutatingSet(t *testing.T) {
	ecsContainer := NewEcs()
	set := NewEntitySet()
	e0, _ := AddEntity(ecsContainer, NewBundle())
	e1, _ := AddEntity(ecsContainer, NewBundle())
	set.Add(e0)
	set.Add(e1)
	RemoveEntity(ecsContainer, e0)

	var got []int
	scanner := ScanEntitySet(ecsContainer, set)
	for {
		ent, idx, ok := scanner.Scan(nil)
		if !ok {
			break
		}
		got = append(got, idx)
		_ = ent
	}
	if len(got) != 1 || got[0] != e1.Index() {
		t.Fatalf("got %v, want [%d]", got, e1.Index())
	}
	if set.Len() != 2 {
		t.Error("scanning should not mutate the underlying set")
	}
}
