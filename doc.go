// Package incr provides a single-threaded, pull-based incremental
// computation engine: a cache for pure computations that, when their
// inputs change, recomputes only the minimal set of derived values
// whose outputs could have been affected.
//
// It targets workloads where reading a computed value vastly dominates
// the cost of bookkeeping -- compilers, language servers, build
// systems, and spreadsheet-like dataflow.
//
// # Core Types
//
// Signal[T] - a writable input cell. Its value is set directly by the
// embedder and carries a declared Durability hint.
//
// Memo[T] - a derived cell whose value is produced by a pure compute
// thunk. Its dependencies are recorded automatically the first time it
// runs, by observing which Signal/Memo Get calls happen during
// compute; it is revalidated, not blindly rerun, on every subsequent
// read.
//
// Runtime - owns the revision clock, the cell store, the in-progress
// query stack, and any open batch. Every Signal and Memo handle is a
// lightweight reference bound to the Runtime that created it.
//
// # Example Usage
//
//	rt := incr.New()
//
//	x := incr.NewSignal(rt, 10)
//	y := incr.NewSignal(rt, 5)
//	z := incr.NewMemo(rt, func() int {
//	    return x.Get() + y.Get()
//	})
//
//	z.Get()    // 15, first evaluation
//	x.Set(12)
//	z.Get()    // 17, recomputed because x changed
//	z.Get()    // 17, returned from cache: no recompute
//
// # Pull, Not Push
//
// Unlike a classic observer-pattern reactive library, nothing runs
// automatically when a Signal changes. Memo.Get/GetResult is the only
// thing that ever triggers a recompute, and it only recomputes when
// the cached value could actually be stale -- determined by walking
// recorded dependencies and comparing revisions, not by blindly
// rerunning.
//
// # Backdating
//
// When a memo recomputes and the new value compares equal (via its
// equality function) to the previously cached value, the memo's
// changed-at revision is left untouched. This shields every downstream
// memo from an unnecessary cascade of recomputation when an upstream
// value churns but nets out unchanged.
//
// # Durability
//
// Signals declare a Durability (Low, Medium, or High); a memo's
// effective durability is the minimum across its dependencies. The
// Runtime tracks, per durability level, the revision at which a signal
// of exactly that durability last actually changed. A memo for which no
// signal at or above its effective durability changed since it was last
// verified can skip its entire dependency walk and reuse its cached
// value outright.
//
// # Batching
//
// Runtime.Batch groups a sequence of Signal.Set/SetUnconditional calls
// into one committed transaction: the revision clock advances at most
// once, reads performed by any computation triggered inside the batch
// see the pre-batch values, and a batch whose net effect reverts every
// staged signal to its original value commits nothing at all.
//
// # Cycles
//
// If a memo's compute thunk transitively reads its own result,
// GetResult returns a *CycleError naming the cell; Get converts that
// into a panic. No dependency edge is recorded on the failed call, so
// a transient cycle does not permanently entangle the caller.
//
// # Concurrency
//
// This package assumes single-threaded use of a given Runtime. By
// default a Runtime enforces this with a best-effort goroutine
// affinity check; see RuntimeOptions.DisableThreadCheck.
//
// # Design Principles
//
//  1. Pull, not push -- nothing recomputes until read.
//  2. Revisions, not dirty bits -- staleness is determined by
//     comparing recorded revisions, which is what makes backdating and
//     the durability shortcut possible.
//  3. Equality plugged in by the value type -- every comparison (the
//     same-value Set optimization, backdating, batch revert detection)
//     goes through a caller-supplied equality function, never identity
//     or bitwise comparison.
//  4. Explicit stacks over recursion for anything whose depth is a
//     function of the dependency graph rather than of genuinely nested
//     user computation.
package incr
