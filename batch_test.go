package incr

import "testing"

// TestBatch_PartialRevertStillCommits exercises the first half of spec
// §8 scenario 4: within one batch, x is set and then set back to its
// original value while y genuinely changes. The batch still commits
// (because of y) and bumps the revision exactly once, and x ends up
// back at its original value.
func TestBatch_PartialRevertStillCommits(t *testing.T) {
	rt := New()
	x := NewSignal(rt, 1)
	y := NewSignal(rt, 2)

	before := rt.Revision()
	rt.Batch(func() {
		x.Set(9)
		y.Set(5)
		x.Set(1) // reverts x within this same batch
	})
	if got := rt.Revision(); got != before+1 {
		t.Fatalf("revision after batch = %d, want %d (y changed)", got, before+1)
	}
	if got := x.Get(); got != 1 {
		t.Errorf("x.Get() after batch = %d, want 1", got)
	}
	if got := y.Get(); got != 5 {
		t.Errorf("y.Get() after batch = %d, want 5", got)
	}
}

// TestBatch_FullRevertIsNoOp exercises invariant I5 and the second half
// of spec §8 scenario 4: a batch whose every staged signal ends up back
// at its pre-batch value commits nothing and does not bump the
// revision.
func TestBatch_FullRevertIsNoOp(t *testing.T) {
	rt := New()
	y := NewSignal(rt, 2)

	before := rt.Revision()
	rt.Batch(func() {
		y.Set(2)
	})
	if got := rt.Revision(); got != before {
		t.Errorf("revision after no-op batch = %d, want unchanged %d", got, before)
	}

	rt.Batch(func() {
		y.Set(5)
		y.Set(2) // back to the value it had before this batch opened
	})
	if got := rt.Revision(); got != before {
		t.Errorf("revision after full-revert batch = %d, want unchanged %d", got, before)
	}
}

// TestBatch_TransactionalReads verifies that reads performed by a
// computation triggered inside an open batch observe the committed
// (pre-batch) value, never a staged one (spec §4.7).
func TestBatch_TransactionalReads(t *testing.T) {
	rt := New()
	x := NewSignal(rt, 1)

	var seenInsideBatch int
	rt.Batch(func() {
		x.Set(100)
		seenInsideBatch = x.Get()
	})

	if seenInsideBatch != 1 {
		t.Errorf("x.Get() inside open batch = %d, want committed value 1", seenInsideBatch)
	}
	if got := x.Get(); got != 100 {
		t.Errorf("x.Get() after batch commit = %d, want 100", got)
	}
}

// TestBatch_Nesting verifies that only the outermost batch commits;
// inner Batch calls merely adjust depth (spec §4.7 "Nesting").
func TestBatch_Nesting(t *testing.T) {
	rt := New()
	x := NewSignal(rt, 1)

	before := rt.Revision()
	var duringInner int
	rt.Batch(func() {
		x.Set(2)
		rt.Batch(func() {
			x.Set(3)
			duringInner = x.Get()
		})
		if got := rt.Revision(); got != before {
			t.Errorf("revision bumped before outer batch closed: %d -> %d", before, got)
		}
	})

	if duringInner != 1 {
		t.Errorf("x.Get() inside nested batch = %d, want committed value 1", duringInner)
	}
	if got := rt.Revision(); got != before+1 {
		t.Errorf("revision after outer batch = %d, want %d", got, before+1)
	}
	if got := x.Get(); got != 3 {
		t.Errorf("x.Get() after nested batch = %d, want 3", got)
	}
}

// TestBatch_PanicDiscardsStagedValues verifies that a panic inside the
// batch function discards staged values without bumping the clock, and
// re-panics to the caller.
func TestBatch_PanicDiscardsStagedValues(t *testing.T) {
	rt := New()
	x := NewSignal(rt, 1)

	before := rt.Revision()
	var recovered any
	func() {
		defer func() {
			recovered = recover()
		}()
		rt.Batch(func() {
			x.Set(99)
			panic("batch aborted")
		})
	}()

	if recovered == nil {
		t.Error("expected the panic inside Batch to reach the caller, it did not")
	}
	if got := rt.Revision(); got != before {
		t.Errorf("revision after panicking batch = %d, want unchanged %d", got, before)
	}
	if got := x.Get(); got != 1 {
		t.Errorf("x.Get() after panicking batch = %d, want original 1", got)
	}
}

// TestBatch_SetUnconditionalForcesCommit verifies that
// SetUnconditional staged inside a batch still forces a commit even if
// the final value equals the original.
func TestBatch_SetUnconditionalForcesCommit(t *testing.T) {
	rt := New()
	x := NewSignal(rt, 7)

	before := rt.Revision()
	rt.Batch(func() {
		x.SetUnconditional(7)
	})
	if got := rt.Revision(); got != before+1 {
		t.Errorf("revision after batch with SetUnconditional(same value) = %d, want %d", got, before+1)
	}
}

// TestBatch_MemoSeesCommittedChange verifies a memo reading a
// batch-staged signal after the batch closes observes the new value
// and recomputes exactly once.
func TestBatch_MemoSeesCommittedChange(t *testing.T) {
	rt := New()
	x := NewSignal(rt, 1)
	y := NewSignal(rt, 2)
	sum := NewMemo(rt, func() int { return x.Get() + y.Get() })

	if got := sum.Get(); got != 3 {
		t.Fatalf("sum.Get() = %d, want 3", got)
	}

	rt.Batch(func() {
		x.Set(10)
		y.Set(20)
	})

	before := sum.RecomputeCount()
	if got := sum.Get(); got != 30 {
		t.Fatalf("sum.Get() after batch = %d, want 30", got)
	}
	if sum.RecomputeCount() != before+1 {
		t.Errorf("sum recomputed %d times after batch, want exactly 1 more", sum.RecomputeCount()-before)
	}
}
