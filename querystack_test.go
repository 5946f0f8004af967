package incr

import "testing"

// TestQueryStack_RecordReadDedups verifies recordRead only appends a
// CellID to the current frame's dependency list on its first occurrence
// (spec §4.5).
func TestQueryStack_RecordReadDedups(t *testing.T) {
	rt := New()
	id := CellID{id: 7}

	fr := rt.pushQueryFrame(CellID{id: 0})
	rt.recordRead(id)
	rt.recordRead(id)
	rt.recordRead(id)
	rt.popQueryFrame()

	if len(fr.deps) != 1 {
		t.Fatalf("deps = %v, want exactly one entry", fr.deps)
	}
	if fr.deps[0] != id {
		t.Errorf("deps[0] = %v, want %v", fr.deps[0], id)
	}
}

// TestQueryStack_RecordReadPreservesFirstOrder verifies reads are
// recorded in first-occurrence order, independent of later repeats.
func TestQueryStack_RecordReadPreservesFirstOrder(t *testing.T) {
	rt := New()
	a := CellID{id: 1}
	b := CellID{id: 2}
	c := CellID{id: 3}

	fr := rt.pushQueryFrame(CellID{id: 0})
	rt.recordRead(b)
	rt.recordRead(a)
	rt.recordRead(b)
	rt.recordRead(c)
	rt.popQueryFrame()

	want := []CellID{b, a, c}
	if len(fr.deps) != len(want) {
		t.Fatalf("deps = %v, want %v", fr.deps, want)
	}
	for i := range want {
		if fr.deps[i] != want[i] {
			t.Errorf("deps[%d] = %v, want %v", i, fr.deps[i], want[i])
		}
	}
}

// TestQueryStack_RecordReadNoOpOutsideFrame verifies recordRead is a
// no-op when no computation is in progress, matching reads performed
// outside any compute thunk.
func TestQueryStack_RecordReadNoOpOutsideFrame(t *testing.T) {
	rt := New()
	if got := rt.currentFrame(); got != nil {
		t.Fatalf("currentFrame() on an empty stack = %v, want nil", got)
	}
	rt.recordRead(CellID{id: 0}) // must not panic
}

// TestQueryStack_NestedFramesIsolateDeps verifies that pushing a new
// frame (as happens when one memo's compute reads another, triggering
// its recompute) isolates dependency recording to the innermost frame
// until it is popped.
func TestQueryStack_NestedFramesIsolateDeps(t *testing.T) {
	rt := New()
	outer := rt.pushQueryFrame(CellID{id: 0})
	rt.recordRead(CellID{id: 10})

	inner := rt.pushQueryFrame(CellID{id: 1})
	rt.recordRead(CellID{id: 20})
	if got := rt.currentFrame(); got != inner {
		t.Fatalf("currentFrame() while inner frame active = %v, want inner frame", got)
	}
	rt.popQueryFrame()

	if got := rt.currentFrame(); got != outer {
		t.Fatalf("currentFrame() after popping inner = %v, want outer frame", got)
	}
	if len(outer.deps) != 1 || outer.deps[0] != (CellID{id: 10}) {
		t.Errorf("outer.deps = %v, want [{10}]", outer.deps)
	}
	if len(inner.deps) != 1 || inner.deps[0] != (CellID{id: 20}) {
		t.Errorf("inner.deps = %v, want [{20}]", inner.deps)
	}
	rt.popQueryFrame()
}
