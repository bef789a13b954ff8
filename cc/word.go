// Package cc implements a cycle-collecting, non-atomic reference-counted
// smart pointer for single-goroutine use: Cc[T]. References are counted
// synchronously (RC); when an object's RC falls to zero it is reclaimed
// immediately. When objects are trapped in a reference cycle, RC never
// reaches zero on its own, so a dedicated collector (CollectCycles) finds
// and reclaims unreachable strongly-connected components.
//
// Everything in this package assumes a single goroutine owns a given
// *State at a time; there is no internal locking. See State for the
// collector context a program threads through its allocation sites.
package cc

import "math"

// MaxRC is the reference-count ceiling. CloneHandle refuses to push RC past
// this and reports Overflow instead, per the counter/marker word contract.
const MaxRC = math.MaxUint32 - 1

// stateFlags packs the STATE bits of the counter/marker word: membership in
// POSSIBLE_CYCLES, the traced/non-root markers used mid-collection, and the
// small finalize/drop/dealloc lifecycle flags.
type stateFlags uint16

const (
	// stateBuffered marks membership in POSSIBLE_CYCLES.
	stateBuffered stateFlags = 1 << iota
	// stateTraced marks membership in TRACED (phase 1 of collection).
	stateTraced
	// stateNonRoot marks membership in NON_ROOT (phase 2 of collection).
	stateNonRoot
	// stateQueuedFinalize marks membership in TO_FINALIZE.
	stateQueuedFinalize
	// stateQueuedDrop marks membership in TO_DROP ("in-queue-for-drop").
	stateQueuedDrop
	// stateFinalized marks a header whose finalizer has already run once.
	stateFinalized
	// stateDropping marks a header whose payload drop is currently executing.
	stateDropping
	// stateDropped marks a header whose payload has been destroyed: no
	// trace routine may be invoked on it again.
	stateDropped
	// stateDeallocPending marks a header past payload-drop, awaiting the
	// final release of the header itself.
	stateDeallocPending
)

func (s stateFlags) has(f stateFlags) bool { return s&f != 0 }

// word is the per-allocation counter/marker word: RC, TC, and STATE bits.
// A single machine word could pack all three; this implementation keeps
// them as distinct fields for clarity and ease of debugging instead.
type word struct {
	rc    uint32
	tc    uint32
	weak  uint32 // reserved by the weak-ptrs overlay; zero unless Config.WeakPtrs
	state stateFlags
}

// incRC implements inc_rc: RC += 1, failing with Overflow at MaxRC.
func (w *word) incRC() error {
	if w.rc >= MaxRC {
		return &Error{Code: ErrOverflow, Message: "reference count overflow"}
	}
	w.rc++
	return nil
}

// decRC implements dec_rc: RC -= 1, reporting whether it reached zero.
func (w *word) decRC() (zero bool) {
	w.rc--
	return w.rc == 0
}

// incTC increments the tracing counter, keeping 0 <= TC <= RC as long as
// callers never trace more outgoing edges to a header than it has incoming
// strong references — a correctness obligation of the trace contract, not
// of this word.
func (w *word) incTC() { w.tc++ }

// resetTC implements reset_tc, restoring TC to zero between collections.
func (w *word) resetTC() { w.tc = 0 }

func (w *word) setState(f stateFlags)        { w.state |= f }
func (w *word) clearState(f stateFlags)      { w.state &^= f }
func (w *word) testState(f stateFlags) bool  { return w.state.has(f) }
func (w *word) isRoot() bool                 { return w.rc > w.tc }
