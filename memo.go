package incr

import (
	"errors"
	"log"
	"runtime/debug"
	"sync/atomic"
)

// memo is the internal storage for a derived cell (spec §3 "Memo cell").
// Memo[T] is the public handle wrapping a pointer to one of these.
type memo[T any] struct {
	id      CellID
	rt      *Runtime
	compute func() T
	equal   EqualFunc[T]

	cached    T
	hasCached bool

	dependencies []CellID
	verifiedAt   Revision
	changedAt    Revision
	durability   Durability
	state        cellState

	recomputeCount uint64
	verifyCount    uint64
}

var (
	_ cell     = (*memo[int])(nil)
	_ memoCell = (*memo[int])(nil)
)

func (m *memo[T]) cellID() CellID             { return m.id }
func (m *memo[T]) cellKind() cellKind         { return kindMemo }
func (m *memo[T]) cellDurability() Durability { return m.durability }
func (m *memo[T]) stateOf() cellState         { return m.state }
func (m *memo[T]) verifiedAtRev() Revision    { return m.verifiedAt }
func (m *memo[T]) changedAtRev() Revision     { return m.changedAt }
func (m *memo[T]) dependencyIDs() []CellID    { return m.dependencies }

func (m *memo[T]) markVerified(at Revision) {
	m.verifiedAt = at
}

func (m *memo[T]) bumpVerifyCount() {
	atomic.AddUint64(&m.verifyCount, 1)
}

// Memo is a derived cell whose value is produced by a pure compute
// thunk and cached until a dependency changes. Create one with NewMemo
// or NewMemoWithEqual; read it with Get or GetResult.
type Memo[T any] struct {
	cell *memo[T]
}

// NewMemo allocates a memo backed by compute, using Go's built-in ==
// for backdating and the same-value optimizations described in spec
// §4.6. Use NewMemoWithEqual for a value type that is not comparable or
// that needs a custom equality predicate.
func NewMemo[T comparable](rt *Runtime, compute func() T) Memo[T] {
	return NewMemoWithEqual(rt, compute, func(a, b T) bool { return a == b })
}

// NewMemoWithEqual allocates a memo with a custom equality function.
// compute must be a pure, deterministic function of the values read
// through Signal.Get/Memo.Get calls made during its execution (spec
// §6); violating this weakens correctness but will not itself corrupt
// the engine's bookkeeping.
func NewMemoWithEqual[T any](rt *Runtime, compute func() T, equal EqualFunc[T]) Memo[T] {
	c := &memo[T]{
		rt:         rt,
		compute:    compute,
		equal:      equal,
		durability: High,
		state:      stateFresh,
	}
	c.id = rt.alloc(c)
	return Memo[T]{cell: c}
}

// ID returns the CellID identifying this memo within its Runtime.
func (m Memo[T]) ID() CellID { return m.cell.id }

// Durability returns the memo's current effective durability: the
// minimum durability across its dependencies as of the most recent
// computation, or High if it has none (spec §3).
func (m Memo[T]) Durability() Durability { return m.cell.durability }

// RecomputeCount returns the number of times this memo's compute thunk
// has run to completion; a run that panics is not counted. It is a
// test/observability counter only (spec
// §3.1 of SPEC_FULL.md); it never affects engine behavior.
func (m Memo[T]) RecomputeCount() uint64 {
	return atomic.LoadUint64(&m.cell.recomputeCount)
}

// VerifyCount returns the number of times the verifier examined this
// memo, through its own GetResult/Get or as a dependency of another
// memo being verified, without it being satisfied by the immediate
// same-revision cache hit (spec §4.6 step 2). Test/observability only.
func (m Memo[T]) VerifyCount() uint64 {
	return atomic.LoadUint64(&m.cell.verifyCount)
}

// Get returns the memo's current value, recomputing it first if
// necessary. If compute transitively reads this memo's own result, Get
// aborts with a panic carrying the *CycleError naming the cycle-causing
// cell, per spec §4.4 and §7. The error value itself is the panic
// argument (not its formatted string) so that runCompute's recover, at
// whatever memo boundary this panic is first caught, can recognize a
// *CycleError by type and re-raise it unrewrapped rather than losing
// its identity to a generic panic wrapper.
func (m Memo[T]) Get() T {
	v, err := m.GetResult()
	if err != nil {
		panic(err)
	}
	return v
}

// GetResult returns the memo's current value, or a *CycleError if
// compute transitively attempted to read this memo's own result (spec
// §4.4, §7). Dependencies are recorded on the calling compute's frame
// only when the result is Ok; a cycle leaves no residual edge on the
// caller (invariant I7).
func (m Memo[T]) GetResult() (T, error) {
	c := m.cell
	c.rt.checkThread()
	if err := c.rt.verify(c.id); err != nil {
		var zero T
		return zero, err
	}
	c.rt.recordRead(c.id)
	return c.cached, nil
}

// runCompute implements step 6 of the verifier (spec §4.6): push a
// query frame, run compute with panic recovery, pop the frame, install
// the newly recorded dependencies and effective durability, and apply
// backdating. It is invoked by Runtime.verify, either directly (a
// Fresh memo, or a stale dependency) or after the iterative dependency
// walk finds a newer dependency.
func (m *memo[T]) runCompute(rt *Runtime) error {
	m.state = stateComputing
	frame := rt.pushQueryFrame(m.id)

	var result T
	var recovered any
	var stack []byte
	func() {
		defer func() {
			if r := recover(); r != nil {
				recovered = r
				stack = debug.Stack()
			}
		}()
		result = m.compute()
	}()
	rt.popQueryFrame()

	if recovered != nil {
		if m.hasCached {
			m.state = stateReady
		} else {
			m.state = stateFresh
		}

		// A cycle is detected cell identity, not an evaluation failure of
		// this memo: it must cross every intermediate memo boundary it
		// transits unrewrapped, so errors.As at the top of the call chain
		// still matches it (spec §7). Memo.Get panics with the error
		// value itself (see above), so a *CycleError surfaces here as a
		// recovered error rather than a string.
		if err, ok := recovered.(error); ok {
			var cycleErr *CycleError
			if errors.As(err, &cycleErr) {
				return cycleErr
			}
		}

		log.Printf("incr: panic in memo %s compute: %v\n%s", m.id, recovered, stack)
		return &panicError{cellID: m.id, value: recovered, stack: stack}
	}

	m.dependencies = frame.deps
	m.durability = rt.minDurability(frame.deps)

	if !m.hasCached || !m.equal(m.cached, result) {
		m.cached = result
		m.changedAt = rt.clock
		m.hasCached = true
	}
	m.verifiedAt = rt.clock
	m.state = stateReady
	atomic.AddUint64(&m.recomputeCount, 1)
	return nil
}
