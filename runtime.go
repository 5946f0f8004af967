package incr

import "runtime"

// Runtime owns every cell (signal or memo), the revision clock, the
// query stack, and any open batch. Signal[T] and Memo[T] handles are
// lightweight references that bind a CellID to a Runtime; all mutation
// is mediated through the Runtime they were created from (spec §3, §5).
//
// A Runtime assumes single-threaded use. Concurrent access from
// multiple goroutines is undefined behavior; by default Runtime
// enforces this with a best-effort goroutine-affinity check (see
// checkThread) that can be disabled via RuntimeOptions for embedders
// that can independently guarantee single-threaded use.
type Runtime struct {
	clock Revision
	cells []cell
	stack []*queryFrame
	batch *batchState

	lastChangeAt [durabilityLevels]Revision

	ownerGoroutine     uint64
	ownerSet           bool
	disableThreadCheck bool
}

// New creates a Runtime with clock = 1, no cells, an empty query stack,
// and no open batch (spec §4.7).
func New() *Runtime {
	return NewWithOptions(RuntimeOptions{})
}

// NewWithOptions creates a Runtime with the given options.
func NewWithOptions(opts RuntimeOptions) *Runtime {
	return &Runtime{
		clock:              1,
		disableThreadCheck: opts.DisableThreadCheck,
	}
}

// Revision returns the current value of the revision clock.
func (rt *Runtime) Revision() Revision {
	rt.checkThread()
	return rt.clock
}

// CellCount returns the number of cells (signals and memos combined)
// allocated in this Runtime so far.
func (rt *Runtime) CellCount() int {
	return len(rt.cells)
}

// bump increments the revision clock by one and returns the new value.
// Called exactly once per committed Set/SetUnconditional outside a
// batch (spec §4.1). A batch commit that observed any net change
// advances the clock by one itself, in commitBatch.
func (rt *Runtime) bump() Revision {
	rt.clock++
	return rt.clock
}

// alloc appends a newly constructed cell to the store and returns its
// freshly assigned, densely-ordered CellID (spec §4.2).
func (rt *Runtime) alloc(c cell) CellID {
	id := CellID{id: len(rt.cells)}
	rt.cells = append(rt.cells, c)
	return id
}

// cellAt returns the stored cell for id. Bounds are guaranteed by
// construction: every CellID in circulation was handed out by alloc on
// this same Runtime.
func (rt *Runtime) cellAt(id CellID) cell {
	return rt.cells[id.id]
}

func (rt *Runtime) memoAt(id CellID) memoCell {
	return rt.cellAt(id).(memoCell)
}

// minDurability returns the minimum durability across the given cells,
// or High if the list is empty (spec §3: "with no dependencies, it is
// High").
func (rt *Runtime) minDurability(ids []CellID) Durability {
	d := High
	for _, id := range ids {
		if cd := rt.cellAt(id).cellDurability(); cd < d {
			d = cd
		}
	}
	return d
}

// bumpLastChangeAt records that a signal of durability d committed a
// real change at revision at. Only the exact durability level is
// updated; the durability shortcut (§4.6 step 4) checks the supremum
// over d and every more durable level, per the Open Question resolved
// in DESIGN.md.
func (rt *Runtime) bumpLastChangeAt(d Durability, at Revision) {
	rt.lastChangeAt[d] = at
}

// durabilityUnchanged reports whether no input of durability >= d has
// changed since verifiedAt, i.e. whether the durability shortcut (§4.6
// step 4) applies.
func (rt *Runtime) durabilityUnchanged(d Durability, verifiedAt Revision) bool {
	for level := int(d); level < durabilityLevels; level++ {
		if rt.lastChangeAt[level] > verifiedAt {
			return false
		}
	}
	return true
}

// checkThread is the best-effort single-goroutine affinity check
// licensed by spec §5. It records the goroutine that first touches the
// Runtime and panics if a different goroutine calls in later, unless
// RuntimeOptions.DisableThreadCheck was set. Goroutine identification
// uses the same stack-trace-parsing trick several reactive libraries in
// this ecosystem use in lieu of an official goroutine-id API.
func (rt *Runtime) checkThread() {
	if rt.disableThreadCheck {
		return
	}
	gid := currentGoroutineID()
	if !rt.ownerSet {
		rt.ownerGoroutine = gid
		rt.ownerSet = true
		return
	}
	if gid != rt.ownerGoroutine {
		panic("incr: Runtime accessed from multiple goroutines; this engine assumes single-threaded use")
	}
}

// currentGoroutineID parses the numeric id out of runtime.Stack's
// "goroutine N [running]:" header. It is a heuristic, not a supported
// Go API guarantee, and is only ever used for the best-effort affinity
// check above, never for correctness-critical bookkeeping.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	seenDigit := false
	for i := 0; i < n; i++ {
		c := buf[i]
		if c >= '0' && c <= '9' {
			seenDigit = true
			id = id*10 + uint64(c-'0')
			continue
		}
		if seenDigit {
			break
		}
	}
	return id
}
