package incr

// cellKind tags which concrete cell variant a stored entry is, mirroring
// the tagged SignalMeta | MemoMeta variant from the data model (spec §3).
type cellKind uint8

const (
	kindSignal cellKind = iota
	kindMemo
)

// cellState is a memo's lifecycle state (spec §3, invariant M4).
type cellState uint8

const (
	// stateFresh: never evaluated.
	stateFresh cellState = iota
	// stateComputing: a frame for this cell is currently on the query stack.
	stateComputing
	// stateReady: cached holds a value from the most recent evaluation.
	stateReady
)

func (s cellState) String() string {
	switch s {
	case stateFresh:
		return "Fresh"
	case stateComputing:
		return "Computing"
	case stateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// cell is the minimal type-erased view every stored cell (signal or memo)
// exposes to the runtime. The store (Runtime.cells) holds these, letting
// the verifier and dependency walk operate on arbitrary CellIds without
// knowing the underlying value type T.
type cell interface {
	cellID() CellID
	cellKind() cellKind
	cellDurability() Durability
}

// signalCell is the type-erased view of a signal cell needed by the
// verifier's dependency walk (step 5 of §4.6): just its changed_at.
type signalCell interface {
	cell
	changedAtRev() Revision
}

// memoCell is the type-erased view of a memo cell needed by the iterative
// verifier (§4.6, §9) to validate a dependency without knowing its value
// type. runCompute performs the generic step-6 recompute (it is
// implemented per value type in memo.go, since only there is T known).
type memoCell interface {
	cell
	stateOf() cellState
	verifiedAtRev() Revision
	changedAtRev() Revision
	dependencyIDs() []CellID
	markVerified(at Revision)
	bumpVerifyCount()
	runCompute(rt *Runtime) error
}
