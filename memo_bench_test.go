package incr

import "testing"

// BenchmarkMemo_GetCached measures repeated reads of a memo whose
// dependencies never change, i.e. the cache-hit fast path.
func BenchmarkMemo_GetCached(b *testing.B) {
	rt := New()
	x := NewSignal(rt, 1)
	y := NewSignal(rt, 2)
	m := NewMemo(rt, func() int { return x.Get() + y.Get() })
	m.Get()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Get()
	}
}

// BenchmarkMemo_RecomputeOnChange measures a memo that recomputes on
// every read because its sole dependency changes every iteration.
func BenchmarkMemo_RecomputeOnChange(b *testing.B) {
	rt := New()
	x := NewSignal(rt, 0)
	m := NewMemo(rt, func() int { return x.Get() * 2 })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x.Set(i)
		_ = m.Get()
	}
}

// BenchmarkMemo_ChainDepth10 measures read performance through a chain
// of ten dependent memos, all cached.
func BenchmarkMemo_ChainDepth10(b *testing.B) {
	rt := New()
	x := NewSignal(rt, 1)

	prev := NewMemo(rt, func() int { return x.Get() })
	for i := 1; i < 10; i++ {
		p := prev
		prev = NewMemo(rt, func() int { return p.Get() + 1 })
	}
	prev.Get()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = prev.Get()
	}
}

// BenchmarkMemo_DurabilityShortcut measures verification cost for a
// High-durability memo when only unrelated Low-durability signals churn.
func BenchmarkMemo_DurabilityShortcut(b *testing.B) {
	rt := New()
	cfg := NewSignalWithDurability(rt, 1, High)
	noise := NewSignal(rt, 0)
	m := NewMemo(rt, func() int { return cfg.Get() * 2 })
	m.Get()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		noise.Set(i)
		_ = m.Get()
	}
}
