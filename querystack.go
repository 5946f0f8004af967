package incr

// queryFrame is the dependency-collector pushed for the duration of a
// single memo recomputation (spec §3 "Query frame", §4.5). It records
// the ordered, deduplicated sequence of cells read by the in-progress
// compute thunk.
type queryFrame struct {
	cellID CellID
	deps   []CellID
	seen   map[CellID]struct{}
}

// pushQueryFrame pushes a new frame for the memo about to be recomputed.
// Callers must pair this with popQueryFrame on every exit path, including
// panics (see memo.go's runCompute, which pushes/pops around a recovered
// compute invocation).
func (rt *Runtime) pushQueryFrame(id CellID) *queryFrame {
	fr := &queryFrame{cellID: id, seen: make(map[CellID]struct{})}
	rt.stack = append(rt.stack, fr)
	return fr
}

// popQueryFrame pops the top frame. It is the caller's responsibility to
// have matched every push with exactly one pop.
func (rt *Runtime) popQueryFrame() {
	rt.stack = rt.stack[:len(rt.stack)-1]
}

// currentFrame returns the frame at the top of the query stack, or nil
// if no computation is in progress.
func (rt *Runtime) currentFrame() *queryFrame {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// recordRead appends id to the current frame's dependency collector if a
// computation is in progress, skipping it if already present (spec §4.5:
// "skipping if the membership set already contains it"). It is a no-op
// when no frame is active, matching Signal.Get / Memo.GetResult reads
// made outside of any compute.
func (rt *Runtime) recordRead(id CellID) {
	fr := rt.currentFrame()
	if fr == nil {
		return
	}
	if _, ok := fr.seen[id]; ok {
		return
	}
	fr.seen[id] = struct{}{}
	fr.deps = append(fr.deps, id)
}
