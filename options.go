package incr

// EqualFunc compares two values of type T for equality. It must be
// total, reflexive, symmetric, and transitive (spec §6). The engine uses
// it for the same-value optimization on Set, for backdating comparisons
// after a memo recompute, and for batch revert detection.
type EqualFunc[T any] func(a, b T) bool

// SignalOptions configures a signal created via NewSignalWithOptions.
type SignalOptions[T any] struct {
	// Equal is an optional custom equality function. NewSignal and
	// NewSignalWithDurability supply Go's == themselves (they require T
	// to be comparable); NewSignalWithOptions accepts any T and treats a
	// nil Equal as "never equal", so every Set is treated as a change.
	// Provide Equal explicitly for non-comparable T that should still get
	// same-value suppression.
	Equal EqualFunc[T]

	// Durability is the signal's declared durability. Defaults to Low.
	Durability Durability
}

// RuntimeOptions configures a Runtime created via NewWithOptions.
type RuntimeOptions struct {
	// DisableThreadCheck disables the best-effort single-goroutine
	// affinity check. Use this only when the embedder can independently
	// guarantee single-threaded access (for example, a single-goroutine
	// actor loop that itself never calls the Runtime concurrently with
	// itself). Off by default: the check is cheap and catches an entire
	// class of undefined-behavior misuse early (spec §5).
	DisableThreadCheck bool
}
