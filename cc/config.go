package cc

import "io"

// Config gathers the feature flags that would otherwise be conditional
// compilation in a language with that facility. Go has no such mechanism,
// so each one becomes a runtime toggle on the State a program constructs.
type Config struct {
	// AutoCollect enables the allocation-site Trigger.
	AutoCollect bool
	// Finalization compiles in the finalize hook and resurrection
	// handling. Disabling it skips Finalizer entirely, even if a payload
	// implements it, and garbage is reclaimed without a finalize pass.
	Finalization bool
	// WeakPtrs reserves the weak-count field in the counter/marker word
	// and allows Weak[T] to be constructed.
	WeakPtrs bool
	// Cleaners enables the detached-callback overlay keyed by header
	// identity (RegisterCleaner).
	Cleaners bool
	// PedanticDebugAssertions enables the add-before-link /
	// remove-before-unlink membership assertions. Meant for tests and
	// development, not hot-path production use.
	PedanticDebugAssertions bool

	// AllocThreshold and BufferedThreshold drive the Trigger heuristic:
	// the collector runs automatically once either counter crosses its
	// threshold. A non-positive value disables that leg of the
	// heuristic. Neither is part of the correctness contract.
	AllocThreshold    int64
	BufferedThreshold int

	// Debug gates diagnostic output to DebugWriter.
	Debug       bool
	DebugWriter io.Writer
}

// DefaultConfig is a ready-to-use, moderately aggressive default rather
// than a zero Config (whose AutoCollect/Finalization would both be off).
var DefaultConfig = Config{
	AutoCollect:             true,
	Finalization:            true,
	WeakPtrs:                true,
	Cleaners:                true,
	PedanticDebugAssertions: false,
	AllocThreshold:          700,
	BufferedThreshold:       1000,
}
