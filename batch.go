package incr

// batchStager is the type-erased hook a staged signal exposes to the
// batch controller at commit time. Implemented per value type by
// signal[T] (see signal.go), since only there is T known for the
// original/pending comparison.
//
// finalize compares the signal's staged pending value against the
// original value recorded when it first entered the batch, using the
// signal's own equality function. If they compare equal, the stage is
// discarded (revert detection, spec §4.7 / invariant I5) and finalize
// reports no change. Otherwise the pending value is committed as the
// new value at revision `at` and finalize reports a change. Either way
// the staged/original bookkeeping is cleared.
type batchStager interface {
	cell
	finalize(at Revision) (changed bool)
}

// batchState tracks one (possibly nested) open batch. Only the
// outermost batch actually stages and commits; nested Runtime.Batch
// calls just bump/decrement depth (spec §4.7 "Nesting").
type batchState struct {
	depth  int
	staged []batchStager
	seen   map[CellID]struct{}
}

// Batch groups input updates so they commit atomically: Signal.Set and
// Signal.SetUnconditional calls made inside fn stage their values
// instead of committing immediately, and reads made inside fn (by
// memo computations it triggers) observe the pre-batch committed
// values, not the staged ones (spec §4.7, "transactional read
// semantics"). When the outermost Batch call returns normally, every
// staged signal whose final value differs from its pre-batch value is
// committed and the clock is bumped exactly once; if every staged
// signal reverted to its original value, the clock is not bumped at
// all (invariant I5).
//
// A panic inside fn discards all staged values without bumping the
// clock; it propagates to the caller after batchState cleanup runs via
// deferred recovery-free unwind (the defer below runs on the panic path
// too, since Go always runs deferred functions during a panic unwind).
func (rt *Runtime) Batch(fn func()) {
	rt.checkThread()

	if rt.batch == nil {
		rt.batch = &batchState{seen: make(map[CellID]struct{})}
	}
	rt.batch.depth++

	committed := false
	defer func() {
		rt.batch.depth--
		if rt.batch.depth > 0 {
			return
		}
		b := rt.batch
		rt.batch = nil
		if !committed {
			// Panic unwind: discard without bumping the clock.
			return
		}
		rt.commitBatch(b)
	}()

	fn()
	committed = true
}

// commitBatch runs the commit/revert decision for every staged signal
// of the outermost batch and bumps the clock once if anything actually
// changed.
func (rt *Runtime) commitBatch(b *batchState) {
	// Determine the revision changed signals will carry before mutating
	// any of them, so every committed signal in this batch shares one
	// changed_at.
	next := rt.clock + 1
	changed := make([]bool, len(b.staged))
	changedAny := false
	for i, s := range b.staged {
		if s.finalize(next) {
			changed[i] = true
			changedAny = true
		}
	}
	if !changedAny {
		return
	}
	rt.clock = next
	for i, s := range b.staged {
		if changed[i] {
			rt.bumpLastChangeAt(s.cellDurability(), next)
		}
	}
}

// stageSignal registers a signal as staged within the current batch.
// Called by signal[T].Set/SetUnconditional when a batch is open. It is
// idempotent per signal: re-staging the same signal within one batch
// does not re-capture the original value (the first-seen original is
// what batch revert detection compares against, spec §3's "Batch
// state").
func (rt *Runtime) stageSignal(s batchStager) bool {
	if rt.batch == nil {
		return false
	}
	if _, ok := rt.batch.seen[s.cellID()]; !ok {
		rt.batch.seen[s.cellID()] = struct{}{}
		rt.batch.staged = append(rt.batch.staged, s)
	}
	return true
}

// inBatch reports whether a batch is currently open.
func (rt *Runtime) inBatch() bool {
	return rt.batch != nil
}
