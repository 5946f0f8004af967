package incr

import "fmt"

// Revision is a monotonic logical clock tick. The initial revision of a
// freshly created Runtime is 1. A Revision of 0 denotes "never" and is
// used as the zero value for verifiedAt/changedAt before a memo has ever
// been evaluated.
type Revision uint64

// CellID identifies a cell (signal or memo) inside a Runtime. IDs are
// assigned densely in creation order (0, 1, 2, ...) and are never reused
// while the Runtime lives.
//
// CellID is only meaningful relative to the Runtime that issued it.
// Passing a CellID obtained from one Runtime to another is a programming
// error and may panic or return stale data.
type CellID struct {
	id int
}

// Int returns the underlying dense integer index of the cell.
func (c CellID) Int() int { return c.id }

func (c CellID) String() string {
	return fmt.Sprintf("cell#%d", c.id)
}

// Durability is a three-level total order describing how often a signal
// is expected to change. Memos compute their effective durability as the
// minimum durability of their dependencies (or High with no dependencies)
// and use it to skip verification walks for revisions where nothing at or
// above that durability level changed.
type Durability int

const (
	// Low is the default durability: frequently-changing signals (user
	// input, clock ticks, request parameters).
	Low Durability = iota
	// Medium durability: signals that change occasionally (configuration
	// reloaded on SIGHUP, feature flags).
	Medium
	// High durability: signals that rarely or never change after startup
	// (compiled options, static environment facts).
	High
)

// durabilityLevels is the count of distinct Durability values, used to
// size the Runtime's per-durability last-change table.
const durabilityLevels = int(High) + 1

func (d Durability) String() string {
	switch d {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return fmt.Sprintf("Durability(%d)", int(d))
	}
}

// CycleError is returned by Memo.GetResult when a memo's compute thunk
// transitively attempted to read its own result. It is the only exported
// error type (see spec §7); a compute thunk that panics surfaces from
// Memo.GetResult as a separate, unexported error (see panicError).
type CycleError struct {
	// CellID names the memo whose re-entry was detected. It is always a
	// cell already present on the query stack at the time of re-entry.
	CellID CellID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("incr: cycle detected: memo %s transitively depends on itself", e.CellID)
}

// panicError wraps a recovered panic from a compute thunk so that
// Memo.GetResult can surface it as a normal error instead of aborting the
// process. Memo.Get re-panics instead of returning this value (see
// memo.go).
type panicError struct {
	cellID CellID
	value  any
	stack  []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("incr: compute panicked for memo %s: %v", e.cellID, e.value)
}
