package cc

// CollectCycles is the user-visible entry point to the collector. It is a
// no-op if already busy — including when called re-entrantly from inside a
// finalizer the collector itself is running — using the package-level
// Default collector context.
func CollectCycles() { collectCyclesIn(Default) }

// CollectCyclesIn runs CollectCycles against an explicit collector
// context.
func CollectCyclesIn(s *State) { collectCyclesIn(s) }

func collectCyclesIn(s *State) {
	if s.busy {
		return
	}

	s.busy = true
	defer func() { s.busy = false }()

	s.trigger.reset()

	candidates := s.possibleCycles.drain()
	for n := candidates.head; n != nil; n = n.listNext {
		n.meta.clearState(stateBuffered)
		n.meta.resetTC()
	}

	if candidates.len == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			cleanupAfterPanic(s, candidates)
			panic(r)
		}
	}()

	s.stats.CollectionsRun++

	phase1TraceCount(s, candidates)
	phase2TraceRoots(s)
	garbage := &s.traced // whatever remains in TRACED after phase 2 is the garbage set
	s.stats.CyclesDetected += int64(garbage.len)
	reclaim(s, garbage)

	// Headers phase 2 confirmed alive are done with collector bookkeeping;
	// restore them to a quiescent state (TC=0, no markers) and let them go
	// — they are referenced by the mutator graph, not by any collector
	// list, once NON_ROOT membership is cleared.
	s.nonRoot.forEach(func(h *Header) {
		h.meta.resetTC()
		removeFromList(&s.nonRoot, h, stateNonRoot)
	})
}

// cleanupAfterPanic restores every collector invariant after a panic from
// user Trace/Finalize/Drop code during collection. Policy decision
// (recorded in DESIGN.md): drain-and-requeue — every header the collector
// had taken off POSSIBLE_CYCLES for this pass, plus anything it had moved
// into TRACED/NON_ROOT/TO_FINALIZE/TO_DROP/TO_DEALLOC while examining them,
// is pushed back onto POSSIBLE_CYCLES with TC reset to 0, so a future
// CollectCycles call re-examines them from a clean slate rather than
// silently losing track of them.
//
// candidates is a detached snapshot (from drain), not a list phase1 keeps
// in sync: once a candidate is seeded into TRACED its next/prev fields now
// describe its position in TRACED, not in the old candidates chain, so
// walking from candidates.head can run straight into TRACED's own chain.
// The seen guard makes that harmless — a header already relinked onto
// POSSIBLE_CYCLES by an earlier requeue pass is left alone instead of
// being spliced in a second time.
func cleanupAfterPanic(s *State, candidates *list) {
	seen := make(map[*Header]bool)

	requeue := func(l *list, member stateFlags) {
		l.forEach(func(h *Header) {
			if seen[h] {
				return
			}
			seen[h] = true

			h.meta.clearState(member)
			h.meta.resetTC()
			h.listNext, h.listPrev, h.onList = nil, nil, listNone
			s.possibleCycles.link(h)
			h.meta.setState(stateBuffered)
			h.onList = listPossibleCycles
		})
		l.head, l.tail, l.len = nil, nil, 0
	}

	requeue(candidates, 0)
	requeue(&s.traced, stateTraced)
	requeue(&s.nonRoot, stateNonRoot)
	requeue(&s.toFinalize, stateQueuedFinalize)
	requeue(&s.toDrop, stateQueuedDrop)
	requeue(&s.toDealloc, stateDeallocPending)
}

// phase1TraceCount is phase 1: trace-count. Every candidate is
// entered into TRACED on first sight; each header's outgoing edges are
// walked exactly once (when the header itself is first traced), so a
// header reached as both a candidate and as another candidate's target is
// never double-counted.
func phase1TraceCount(s *State, candidates *list) {
	var stack []*Header

	enter := func(h *Header) {
		if h.meta.testState(stateTraced) {
			return
		}

		addToList(&s.traced, h, stateTraced, s.cfg.PedanticDebugAssertions)
		s.stats.TracedCount++
		stack = append(stack, h)
	}

	// candidates.forEach, not a raw n = n.listNext walk: enter() relinks h
	// into TRACED, which overwrites the very listNext pointer a manual walk
	// would still be relying on to find the next candidate.
	candidates.forEach(enter)

	v := visitorFunc(func(target *Header) {
		target.meta.incTC()
		enter(target)
	})

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		h.vtbl.trace(v)
	}
}

// phase2TraceRoots is phase 2: trace-roots. A header is a root iff
// RC > TC. Every header reachable from a root is moved out of TRACED and
// into NON_ROOT ("confirmed reachable"); whatever remains in TRACED once
// every root has been re-traversed is the cyclic garbage set — no set
// subtraction needed, the list itself is the answer.
func phase2TraceRoots(s *State) {
	var roots []*Header

	for n := s.traced.head; n != nil; n = n.listNext {
		if n.meta.isRoot() {
			roots = append(roots, n)
		}
	}

	var stack []*Header

	enter := func(h *Header) {
		if h.meta.testState(stateNonRoot) {
			return
		}

		move(&s.traced, &s.nonRoot, h, stateTraced, stateNonRoot, s.cfg.PedanticDebugAssertions)
		stack = append(stack, h)
	}

	for _, r := range roots {
		enter(r)
	}

	v := visitorFunc(func(target *Header) { enter(target) })

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		h.vtbl.trace(v)
	}
}

// reclaim is phase 3: finalize the garbage set, re-check for resurrection,
// and drop+deallocate whatever is still dead.
func reclaim(s *State, garbage *list) {
	if garbage.len == 0 {
		return
	}

	toFinalize := garbage.drain()
	toFinalize.kind = listToFinalize

	for n := toFinalize.head; n != nil; n = n.listNext {
		n.meta.clearState(stateTraced)
		n.meta.setState(stateQueuedFinalize)
		n.onList = listToFinalize
	}

	if s.cfg.Finalization {
		toFinalize.forEach(func(h *Header) { runFinalizerOnce(s, h) })
	}

	alive := resurrectionRecheck(toFinalize)

	for n := toFinalize.head; n != nil; {
		next := n.listNext

		if alive[n] {
			move(toFinalize, &s.possibleCycles, n, stateQueuedFinalize, stateBuffered, s.cfg.PedanticDebugAssertions)
			n.meta.resetTC()
			s.stats.Resurrections++
		} else {
			move(toFinalize, &s.toDrop, n, stateQueuedFinalize, stateQueuedDrop, s.cfg.PedanticDebugAssertions)
		}

		n = next
	}

	for n := s.toDrop.head; n != nil; {
		next := n.listNext
		removeFromList(&s.toDrop, n, stateQueuedDrop)
		dropPayload(s, n)
		addToList(&s.toDealloc, n, stateDeallocPending, s.cfg.PedanticDebugAssertions)
		n = next
	}

	for n := s.toDealloc.head; n != nil; {
		next := n.listNext
		removeFromList(&s.toDealloc, n, stateDeallocPending)
		deallocate(s, n)
		n = next
	}
}

// resurrectionRecheck implements phase 3 step 2: re-validate the garbage
// set by recomputing RC-TC with phase-1/2 logic restricted to toFinalize.
// A finalizer may have cloned a handle to any header in the garbage SCC,
// raising its RC without a corresponding internal edge accounting for it;
// such headers (and everything reachable from them within the garbage
// set) come back alive.
func resurrectionRecheck(toFinalize *list) map[*Header]bool {
	toFinalize.forEach(func(h *Header) { h.meta.resetTC() })

	inSet := func(h *Header) bool { return h.meta.testState(stateQueuedFinalize) }

	toFinalize.forEach(func(h *Header) {
		h.vtbl.trace(visitorFunc(func(target *Header) {
			if inSet(target) {
				target.meta.incTC()
			}
		}))
	})

	var resurrectedRoots []*Header

	toFinalize.forEach(func(h *Header) {
		if h.meta.isRoot() {
			resurrectedRoots = append(resurrectedRoots, h)
		}
	})

	alive := make(map[*Header]bool, len(resurrectedRoots))
	var stack []*Header

	push := func(h *Header) {
		if alive[h] {
			return
		}

		alive[h] = true
		stack = append(stack, h)
	}

	for _, r := range resurrectedRoots {
		push(r)
	}

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		h.vtbl.trace(visitorFunc(func(target *Header) {
			if inSet(target) {
				push(target)
			}
		}))
	}

	return alive
}
