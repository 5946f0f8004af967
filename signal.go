package incr

// signal is the internal storage for a writable input cell (spec §3
// "Signal cell"). Signal[T] is the public handle wrapping a pointer to
// one of these.
type signal[T any] struct {
	id          CellID
	rt          *Runtime
	value       T
	pending     T
	hasPending  bool
	original    T
	forceChange bool
	durability  Durability
	changedAt   Revision
	equal       EqualFunc[T]
}

var (
	_ cell        = (*signal[int])(nil)
	_ signalCell  = (*signal[int])(nil)
	_ batchStager = (*signal[int])(nil)
)

func (s *signal[T]) cellID() CellID             { return s.id }
func (s *signal[T]) cellKind() cellKind         { return kindSignal }
func (s *signal[T]) cellDurability() Durability { return s.durability }
func (s *signal[T]) changedAtRev() Revision     { return s.changedAt }

// Signal is a writable input cell holding a value of type T. Create one
// with NewSignal, NewSignalWithDurability, or NewSignalWithOptions; read
// it with Get, write it with Set or SetUnconditional.
//
// Signal is safe to copy (it is a thin handle); it is NOT safe to share
// across goroutines concurrently with the Runtime that owns it — see
// the Runtime doc comment for the single-threaded contract this engine
// assumes.
type Signal[T any] struct {
	cell *signal[T]
}

// NewSignal allocates a new signal with declared durability Low, the
// default, and a value-equality check using Go's built-in ==. Use
// NewSignalWithOptions for types that are not comparable or that need a
// custom equality predicate.
func NewSignal[T comparable](rt *Runtime, initial T) Signal[T] {
	return NewSignalWithOptions(rt, initial, SignalOptions[T]{
		Equal: func(a, b T) bool { return a == b },
	})
}

// NewSignalWithDurability allocates a new signal with an explicit
// durability and Go's built-in == for equality.
func NewSignalWithDurability[T comparable](rt *Runtime, initial T, d Durability) Signal[T] {
	return NewSignalWithOptions(rt, initial, SignalOptions[T]{
		Equal:      func(a, b T) bool { return a == b },
		Durability: d,
	})
}

// NewSignalWithOptions allocates a new signal with a custom equality
// function and/or durability. A nil opts.Equal disables the same-value
// optimization entirely: every Set (even with an unchanged value) is
// treated as a real change and bumps the revision, the same tradeoff
// the teacher's Options[T]{Equal: nil} makes for non-comparable types.
func NewSignalWithOptions[T any](rt *Runtime, initial T, opts SignalOptions[T]) Signal[T] {
	c := &signal[T]{
		value:      initial,
		durability: opts.Durability,
		equal:      opts.Equal,
		rt:         rt,
	}
	c.changedAt = rt.clock
	c.id = rt.alloc(c)
	return Signal[T]{cell: c}
}

// ID returns the CellID identifying this signal within its Runtime.
func (s Signal[T]) ID() CellID { return s.cell.id }

// Durability returns the signal's declared durability.
func (s Signal[T]) Durability() Durability { return s.cell.durability }

// Get returns the committed value. If called while a compute thunk is
// in progress, this read is recorded as a dependency of that thunk
// (spec §4.3, §4.5). During an open batch, Get always returns the
// committed value, never a staged-but-uncommitted pending value — this
// is the "transactional read" guarantee of spec §4.7: a batch's changes
// are invisible to computations run while the batch is open.
func (s Signal[T]) Get() T {
	s.cell.rt.checkThread()
	s.cell.rt.recordRead(s.cell.id)
	return s.cell.value
}

// GetResult returns Ok(Get()). It never fails; it exists purely for
// interface symmetry with Memo.GetResult (spec §4.3).
func (s Signal[T]) GetResult() (T, error) {
	return s.Get(), nil
}

// current returns the value Set's equality check should compare
// against: the staged pending value if this signal is already staged in
// the open batch, otherwise the committed value. This is distinct from
// Get, which never observes a pending value (see the Get doc comment).
func (c *signal[T]) current() T {
	if c.hasPending {
		return c.pending
	}
	return c.value
}

// Set replaces the signal's value if it differs from the current
// visible value under the signal's equality function (spec §4.3). If
// no batch is open, the value commits immediately and the clock bumps.
// If a batch is open, the value is staged and will be committed (or
// reverted) when the outermost batch closes (spec §4.7).
func (s Signal[T]) Set(v T) {
	c := s.cell
	c.rt.checkThread()
	if c.equal != nil && c.equal(c.current(), v) {
		return
	}
	c.stage(v)
}

// SetUnconditional is like Set but skips the equality check: it always
// stages/commits the value and always forces a revision bump, even if
// the new value compares equal to the current one (spec §4.3). This is
// useful to force dependents to reverify without actually changing the
// observable value (spec §8 scenario 6).
func (s Signal[T]) SetUnconditional(v T) {
	c := s.cell
	c.rt.checkThread()
	c.forceChange = true
	c.stage(v)
}

// stage records v as the signal's new value, deferring to the batch
// controller if a batch is open, otherwise committing immediately.
func (c *signal[T]) stage(v T) {
	if c.rt.inBatch() {
		if !c.hasPending {
			c.original = c.value
			c.hasPending = true
		}
		c.pending = v
		c.rt.stageSignal(c)
		return
	}
	c.value = v
	c.forceChange = false
	c.changedAt = c.rt.bump()
	c.rt.bumpLastChangeAt(c.durability, c.changedAt)
}

// finalize implements batchStager for signal[T] (see batch.go). The
// forceChange field (set by SetUnconditional) lives on the struct
// rather than being threaded through stage/finalize as a parameter
// because it must survive until the batch closes, even if further Set
// calls restage the same signal in the meantime. It is
// only ever called by Runtime.commitBatch on a signal that was staged
// in the batch about to close.
func (c *signal[T]) finalize(at Revision) bool {
	defer func() {
		c.hasPending = false
		c.forceChange = false
	}()
	if !c.forceChange && c.equal != nil && c.equal(c.original, c.pending) {
		return false
	}
	c.value = c.pending
	c.changedAt = at
	return true
}
