package cc

// Trigger is the allocation-site heuristic: it tracks allocations since the
// last collection and the current POSSIBLE_CYCLES length, and invokes the
// collector once either threshold is crossed. The exact heuristic is not
// part of the correctness contract — it is a dual count-based threshold,
// simplified from a count-and-interval pair down to pure counters since
// this core has no background timer.
type Trigger struct {
	sinceCollection int64
}

// onAllocate records one allocation and, if AutoCollect is enabled and a
// threshold is crossed, runs the collector — unless it is already busy,
// in which case the heuristic must not fire.
func (t *Trigger) onAllocate(s *State) {
	t.sinceCollection++

	if !s.cfg.AutoCollect || s.busy {
		return
	}

	if t.shouldCollect(s) {
		t.sinceCollection = 0
		collectCyclesIn(s)
	}
}

func (t *Trigger) shouldCollect(s *State) bool {
	if s.cfg.AllocThreshold > 0 && t.sinceCollection >= s.cfg.AllocThreshold {
		return true
	}

	if s.cfg.BufferedThreshold > 0 && s.possibleCycles.len >= s.cfg.BufferedThreshold {
		return true
	}

	return false
}

// reset clears the allocation counter, called after every collection
// (manual or triggered) so the next threshold crossing is measured from
// a clean baseline.
func (t *Trigger) reset() { t.sinceCollection = 0 }
