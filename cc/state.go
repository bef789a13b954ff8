package cc

import (
	"fmt"
	"os"
)

// State is the collector's context object. Go's goroutines have no cheap
// thread-local storage, so this package threads an explicit context through
// allocation, clone, drop, and collection entry points rather than hiding a
// package-level global behind the scenes. A *State must only ever be used
// from one goroutine at a time; nothing in this package synchronizes access
// to it.
type State struct {
	possibleCycles list
	traced         list
	nonRoot        list
	toFinalize     list
	toDrop         list
	toDealloc      list

	busy bool

	cfg     Config
	stats   Stats
	trigger Trigger

	cleanerRegistry map[*Header][]func()
}

// Stats is a plain counters struct a diagnostics surface (Collector,
// StartDebugHTTP) can read without locking, since State is single-threaded.
type Stats struct {
	TotalAllocations int64
	LiveHeaders      int64
	TotalClones      int64
	TotalDrops       int64
	FastPathFrees    int64
	CollectionsRun   int64
	CyclesDetected   int64
	TracedCount      int64
	Resurrections    int64
	FinalizersRun    int64
}

// NewState constructs a fresh collector context with cfg. Embedders that
// want more than one independent collector domain (tests, in particular)
// should each hold their own *State.
func NewState(cfg Config) *State {
	return &State{
		possibleCycles: newList(listPossibleCycles),
		traced:         newList(listTraced),
		nonRoot:        newList(listNonRoot),
		toFinalize:     newList(listToFinalize),
		toDrop:         newList(listToDrop),
		toDealloc:      newList(listToDealloc),
		cfg:            cfg,
	}
}

// Default is the package-level collector context used by the top-level
// Allocate/Clone/Drop/CollectCycles convenience functions, analogous to
// how a real Cc<T> crate's ergonomic layer hides a process-wide
// thread-local. Programs that want explicit control (or more than one
// domain) should use NewState and the *In functions instead.
var Default = NewState(DefaultConfig)

// Stats returns a snapshot of s's running statistics.
func (s *State) Stats() Stats { return s.stats }

// IsBusy reports whether s is mid-collection — true only while inside
// CollectCycles, including while a finalizer running as part of that
// collection is itself executing.
func (s *State) IsBusy() bool { return s.busy }

// PossibleCycles returns the number of headers currently buffered as
// possible cyclic roots, for diagnostics.
func (s *State) PossibleCycles() int { return s.possibleCycles.len }

func (s *State) debugf(format string, args ...any) {
	if !s.cfg.Debug {
		return
	}

	w := s.cfg.DebugWriter
	if w == nil {
		w = os.Stderr
	}

	fmt.Fprintf(w, format, args...)
}
