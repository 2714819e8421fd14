package component

import "testing"

func TestDenseInsertGet(t *testing.T) {
	d := NewDense[string]()
	old, displaced := d.Insert(3, "hello")
	if displaced {
		t.Fatalf("first insert at a fresh index should not displace, got old=%q", old)
	}
	got, ok := d.Get(3)
	if !ok || *got != "hello" {
		t.Fatalf("Get(3) = (%v, %v), want (hello, true)", got, ok)
	}
	if _, ok := d.Get(0); ok {
		t.Error("ungrown slot should be absent")
	}
}

func TestDensePointerStableAcrossGrowth(t *testing.T) {
	d := NewDense[int]()
	d.Insert(0, 1)
	p, _ := d.Get(0)

	// Force the backing slice to grow several times.
	for i := 1; i < 50; i++ {
		d.Insert(i, i)
	}

	if *p != 1 {
		t.Fatalf("pointer obtained before growth should still read 1, got %d", *p)
	}
	*p = 99
	p2, _ := d.Get(0)
	if *p2 != 99 {
		t.Fatalf("mutation through a pre-growth pointer should be visible via Get, got %d", *p2)
	}
}

func TestDenseInsertDisplaces(t *testing.T) {
	d := NewDense[int]()
	d.Insert(0, 1)
	old, displaced := d.Insert(0, 2)
	if !displaced || old != 1 {
		t.Fatalf("re-insert should displace the prior value: got (%d, %v)", old, displaced)
	}
}

func TestDenseRemove(t *testing.T) {
	d := NewDense[int]()
	d.Insert(2, 42)
	val, ok := d.Remove(2)
	if !ok || val != 42 {
		t.Fatalf("Remove(2) = (%d, %v), want (42, true)", val, ok)
	}
	if _, ok := d.Get(2); ok {
		t.Error("removed slot should be absent")
	}
	if _, ok := d.Remove(2); ok {
		t.Error("double-remove should report absent")
	}
}

func TestDenseScanSkipsHoles(t *testing.T) {
	d := NewDense[string]()
	d.Insert(0, "a")
	d.Insert(3, "b")
	d.Insert(5, "c")
	d.Remove(3)

	s := d.Scan()
	var gotIdx []int
	for {
		_, idx, ok := s.Scan(nil)
		if !ok {
			break
		}
		gotIdx = append(gotIdx, idx)
	}
	want := []int{0, 5}
	if len(gotIdx) != len(want) || gotIdx[0] != want[0] || gotIdx[1] != want[1] {
		t.Fatalf("got %v, want %v", gotIdx, want)
	}
}

func TestDenseCloneIsIndependent(t *testing.T) {
	d := NewDense[int]()
	d.Insert(0, 1)
	clone := d.Clone()
	clone.Insert(0, 2)

	got, _ := d.Get(0)
	if *got != 1 {
		t.Errorf("mutating the clone should not affect the original, got %d", *got)
	}
}
