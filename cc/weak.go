package cc

// Weak is a non-owning reference to a Cc[T]'s header: it does not keep the
// payload alive and does not participate in cycle collection (a cycle made
// entirely of weak edges is not a leak, since nothing strong holds it). It
// reuses word.weak — the counter/marker word field reserved for an
// optional weak-pointer overlay — rather than adding a parallel side table.
//
// Weak is only usable when the owning *State's Config.WeakPtrs is true;
// NewWeak panics otherwise, matching how Config's other overlay flags
// (Finalization, Cleaners) gate their corresponding entry points.
type Weak[T Tracer] struct {
	h *Header
}

// NewWeak downgrades c into a Weak handle, incrementing h.weak. It does not
// touch RC and does not affect whether the payload is ever dropped.
func NewWeak[T Tracer](s *State, c Cc[T]) Weak[T] {
	if !s.cfg.WeakPtrs {
		panic("cc: weak pointers disabled (Config.WeakPtrs is false)")
	}

	c.h.meta.weak++

	return Weak[T]{h: c.h}
}

// Upgrade returns a live Cc[T] and true if the payload has not yet been
// dropped, incrementing RC as CloneHandle would. It returns the zero Cc[T]
// and false once the payload is gone — the header itself may still be
// reachable through w (Go's own GC, not this package, eventually reclaims
// it once every Weak and Cc referencing it is gone).
func (w Weak[T]) Upgrade() (Cc[T], bool) {
	if !w.h.IsValid() {
		return Cc[T]{}, false
	}

	if err := CloneHandle(w.h); err != nil {
		return Cc[T]{}, false
	}

	return Cc[T]{h: w.h}, true
}

// Drop releases w's weak reference. Once every Weak referencing a header
// has been dropped, nothing prevents the host runtime from collecting the
// header struct itself after its last Cc reference is also gone.
func (w Weak[T]) Drop() {
	if w.h == nil || w.h.meta.weak == 0 {
		return
	}

	w.h.meta.weak--
}
