package incr

// verifyFrame is one entry of the explicit work stack the verifier
// walks instead of recursing directly into each dependency, so that a
// long linear memo chain cannot blow the Go call stack during a pure
// staleness check (spec §9, "Recursive verification -> iterative
// walk"). cursor == -1 means the frame's entry checks (steps 1-4 of
// §4.6) have not run yet; cursor >= 0 is an index into the memo's
// recorded dependency list, the position step 5's walk has reached.
type verifyFrame struct {
	id     CellID
	cursor int
}

// verify brings the memo named by root up to date at the current
// revision, implementing steps 1-6 of §4.6 for root and, via the
// explicit work stack, for every memo dependency transitively reached
// while walking root's (and its dependencies') recorded dependency
// lists. It returns a *CycleError if a memo already Computing is
// re-entered, or the wrapped panic from a compute thunk if one panicked.
//
// Actual recomputation (step 6) may itself call back into user compute
// closures that read other memos via Memo.GetResult, which re-enters
// verify through an ordinary (bounded) Go call -- that recursion is
// inherent to evaluating opaque user code and is not what this function
// guards against; what it guards against is the purely bookkeeping
// descent of step 5 over already-recorded dependency edges, which has
// no such natural bound.
func (rt *Runtime) verify(root CellID) error {
	stack := []verifyFrame{{id: root, cursor: -1}}

	for len(stack) > 0 {
		fr := &stack[len(stack)-1]
		m := rt.memoAt(fr.id)

		if fr.cursor < 0 {
			resolved, err := rt.enterFrame(m)
			if err != nil {
				return err
			}
			if resolved {
				stack = stack[:len(stack)-1]
				continue
			}
			fr.cursor = 0
		}

		deps := m.dependencyIDs()
		if fr.cursor >= len(deps) {
			// Every dependency checked out as no newer than this memo's
			// last verification: promote and resolve.
			m.markVerified(rt.clock)
			stack = stack[:len(stack)-1]
			continue
		}

		dep := deps[fr.cursor]
		depCell := rt.cellAt(dep)

		if depCell.cellKind() == kindSignal {
			if depCell.(signalCell).changedAtRev() > m.verifiedAtRev() {
				if err := m.runCompute(rt); err != nil {
					return err
				}
				stack = stack[:len(stack)-1]
				continue
			}
			fr.cursor++
			continue
		}

		dm := depCell.(memoCell)
		if dm.stateOf() == stateReady && dm.verifiedAtRev() == rt.clock {
			// Dependency already current this revision: compare directly.
			if dm.changedAtRev() > m.verifiedAtRev() {
				if err := m.runCompute(rt); err != nil {
					return err
				}
				stack = stack[:len(stack)-1]
				continue
			}
			fr.cursor++
			continue
		}

		// Dependency needs validating first. Push its frame; fr.cursor
		// is left unchanged so we re-examine the same dependency once
		// its frame resolves, at which point the branch above fires.
		stack = append(stack, verifyFrame{id: dep, cursor: -1})
	}

	return nil
}

// enterFrame runs steps 1-4 of §4.6 for m: cycle check, same-revision
// cache hit, first evaluation, and the durability shortcut. It returns
// (true, nil) if one of those steps fully resolved m (no further
// dependency walk needed), (false, nil) if the caller must proceed to
// the dependency walk (step 5), or a non-nil error on a detected cycle
// or a panic surfaced from an unconditional recompute (the Fresh case).
func (rt *Runtime) enterFrame(m memoCell) (resolved bool, err error) {
	// Step 1: cycle check. Invariant M4 (state == Computing iff a frame
	// for this cell is on the query stack) lets this substitute for
	// scanning the query stack directly.
	if m.stateOf() == stateComputing {
		return false, &CycleError{CellID: m.cellID()}
	}

	// Step 2: cache hit.
	if m.stateOf() == stateReady && m.verifiedAtRev() == rt.clock {
		return true, nil
	}

	m.bumpVerifyCount()

	// Step 3: first evaluation.
	if m.stateOf() == stateFresh {
		if err := m.runCompute(rt); err != nil {
			return false, err
		}
		return true, nil
	}

	// Step 4: durability shortcut.
	if rt.durabilityUnchanged(m.cellDurability(), m.verifiedAtRev()) {
		m.markVerified(rt.clock)
		return true, nil
	}

	return false, nil
}
