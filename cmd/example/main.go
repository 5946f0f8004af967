package main

import (
	"fmt"

	incr "github.com/coregx/incr"
)

func main() {
	demoBasicSignalsAndMemos()
	demoBackdating()
	demoDurability()
	demoBatching()
	demoCycle()
	fmt.Println("\n=== Demo Complete ===")
}

func demoBasicSignalsAndMemos() {
	fmt.Println("=== Phase 1: Signals and Memos ===")

	rt := incr.New()
	x := incr.NewSignal(rt, 10)
	y := incr.NewSignal(rt, 5)

	z := incr.NewMemo(rt, func() int {
		fmt.Println("  (recomputing z)")
		return x.Get() + y.Get()
	})

	fmt.Println("z.Get() =", z.Get())
	fmt.Println("z.Get() again (cached) =", z.Get())

	x.Set(12)
	fmt.Println("After x.Set(12): z.Get() =", z.Get())
}

func demoBackdating() {
	fmt.Println("\n=== Phase 2: Backdating ===")

	rt := incr.New()
	x := incr.NewSignal(rt, 2)
	sq := incr.NewMemo(rt, func() int {
		return x.Get() * x.Get()
	})
	z := incr.NewMemo(rt, func() int {
		fmt.Println("  (recomputing z)")
		return sq.Get() + 1
	})

	fmt.Println("z.Get() =", z.Get())
	x.Set(-2)
	fmt.Println("After x.Set(-2): sq.Get() =", sq.Get(), "(unchanged)")
	fmt.Println("z.Get() =", z.Get(), "-- z did not recompute, recompute count:", z.RecomputeCount())
}

func demoDurability() {
	fmt.Println("\n=== Phase 3: Durability shortcut ===")

	rt := incr.New()
	cfg := incr.NewSignalWithDurability(rt, "A", incr.High)
	n := incr.NewSignal(rt, 0)
	m := incr.NewMemo(rt, func() string {
		return fmt.Sprintf("%s-%d", cfg.Get(), n.Get())
	})

	fmt.Println("m.Get() =", m.Get(), "durability:", m.Durability())
	n.Set(1)
	fmt.Println("After n.Set(1): m.Get() =", m.Get())
}

func demoBatching() {
	fmt.Println("\n=== Phase 4: Batching ===")

	rt := incr.New()
	x := incr.NewSignal(rt, 1)
	y := incr.NewSignal(rt, 2)

	fmt.Println("revision before batch:", rt.Revision())
	rt.Batch(func() {
		x.Set(9)
		y.Set(5)
		x.Set(1) // reverts x back to its original value
	})
	fmt.Println("revision after batch (y changed, x reverted):", rt.Revision())

	rt.Batch(func() {
		y.Set(2) // y was 5 when this batch opened, so this is a real change
	})
	fmt.Println("revision after batch setting y back to 2:", rt.Revision())
}

func demoCycle() {
	fmt.Println("\n=== Phase 5: Cycle detection ===")

	rt := incr.New()
	var a, b incr.Memo[int]
	a = incr.NewMemo(rt, func() int {
		return b.Get() + 1
	})
	b = incr.NewMemo(rt, func() int {
		return a.Get() + 1
	})

	_, err := a.GetResult()
	fmt.Println("a.GetResult() error:", err)
}
