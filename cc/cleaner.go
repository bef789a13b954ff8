package cc

// RegisterCleaner attaches a detached cleanup callback to h, keyed by
// header identity, as a "cleaners" overlay: fn runs once, after the
// payload has been dropped (finalizer first, then Dropper, then
// cleaners), regardless of whether reclamation happened on the fast path
// or via CollectCycles. Unlike Finalizer, a cleaner has no access to the
// payload and cannot resurrect it — it exists purely for side effects
// (releasing an external resource the payload referenced by value, for
// instance) requiring no cooperation from the payload type itself.
//
// RegisterCleaner is a no-op if s.cfg.Cleaners is false.
func RegisterCleaner(s *State, h *Header, fn func()) {
	if !s.cfg.Cleaners || fn == nil {
		return
	}

	if s.cleanerRegistry == nil {
		s.cleanerRegistry = make(map[*Header][]func())
	}

	s.cleanerRegistry[h] = append(s.cleanerRegistry[h], fn)
}

// runCleaners invokes and forgets every cleaner registered against h. Each
// callback is isolated with recover so one misbehaving cleaner cannot stop
// the rest from running, mirroring the best-effort finalizer contract.
func runCleaners(s *State, h *Header) {
	fns := s.cleanerRegistry[h]
	if len(fns) == 0 {
		return
	}

	delete(s.cleanerRegistry, h)

	for _, fn := range fns {
		func() {
			defer func() { _ = recover() }()
			fn()
		}()
	}
}
