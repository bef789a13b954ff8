package cc

// Cc is the reference-counted handle to a collected header: Cc<T>. It is a
// thin ergonomic layer over the set of header-pointer operations below
// (CloneHandle/DropHandle/CollectCycles/IsValid). T should ordinarily be a
// pointer type whose pointee implements Tracer, so that cloning a Cc[T]
// shares the same mutable payload rather than copying it.
//
// Cc[T] is not safe to share across goroutines and carries no atomics.
type Cc[T Tracer] struct {
	h *Header
}

// ccHeader satisfies the handle interface Visitor.Visit consumes.
func (c Cc[T]) ccHeader() *Header { return c.h }

// Value returns the typed payload stored in the handle. It panics if the
// handle is the zero Cc[T] (no allocation) — mirroring a nil-pointer
// dereference, which is what an equivalent bare pointer would do.
func (c Cc[T]) Value() T {
	return c.h.value.(T)
}

// IsValid reports whether the payload has not yet been dropped. A zero
// Cc[T] is never valid.
func (c Cc[T]) IsValid() bool { return c.h.IsValid() }

// Clone implements clone_handle for the ergonomic handle against the
// package-level Default collector context: RC += 1, or panics with
// *Error{Code: ErrOverflow} at the ceiling. Use CloneHandle directly on the
// header if you want the error returned instead of a panic.
func (c Cc[T]) Clone() Cc[T] { return c.CloneIn(Default) }

// CloneIn is Clone against an explicit collector context, so Stats().TotalClones
// reflects clones made through s.
func (c Cc[T]) CloneIn(s *State) Cc[T] {
	if err := CloneHandle(c.h); err != nil {
		panic(err)
	}

	s.stats.TotalClones++

	return c
}

// Drop implements drop_handle for the ergonomic handle on the
// package-level Default collector context. Call DropIn with an explicit
// *State to use a non-default context.
func (c Cc[T]) Drop() { DropHandle(Default, c.h) }

// Allocate heap-allocates a header for value with RC=1 and returns a
// handle to it, using the package-level Default collector context.
func Allocate[T Tracer](value T) Cc[T] {
	return AllocateIn(Default, value)
}

// AllocateIn is Allocate against an explicit collector context.
func AllocateIn[T Tracer](s *State, value T) Cc[T] {
	h := &Header{vtbl: buildVTable[T](value), value: value}
	h.meta.rc = 1

	s.stats.TotalAllocations++
	s.stats.LiveHeaders++
	s.trigger.onAllocate(s)

	return Cc[T]{h: h}
}

// DropIn is Drop against an explicit collector context.
func (c Cc[T]) DropIn(s *State) { DropHandle(s, c.h) }

// CloneHandle implements clone_handle(header_ptr): RC += 1, failing with
// Overflow at the ceiling. Collector state is left unchanged on failure.
func CloneHandle(h *Header) error {
	return h.meta.incRC()
}

// DropHandle implements drop_handle(header_ptr), the RC-decrement fast
// path. On the zero-RC branch the header is reclaimed synchronously and
// cannot be on a pending-collection list (cycles require RC to stay
// non-zero); otherwise, unless the payload is a leaf (no outgoing strong
// edges), the header is buffered onto POSSIBLE_CYCLES for a future
// CollectCycles.
func DropHandle(s *State, h *Header) {
	if h == nil {
		return
	}

	s.stats.TotalDrops++

	zero := h.meta.decRC()
	if zero {
		if h.meta.testState(stateBuffered) {
			removeFromList(&s.possibleCycles, h, stateBuffered)
		}

		s.stats.FastPathFrees++
		finalizeAndReclaim(s, h)

		return
	}

	if h.isLeaf() {
		return
	}

	if !h.meta.testState(stateBuffered) {
		addToList(&s.possibleCycles, h, stateBuffered, s.cfg.PedanticDebugAssertions)
	}
}

// IsValid implements is_valid(header_ptr) at the core level.
func IsValid(h *Header) bool { return h.IsValid() }

// finalizeAndReclaim runs the single-shot finalizer (if enabled and not
// already run), drops the payload, and releases the header. Used both by
// DropHandle's fast path and by the collector's truly-dead tail.
func finalizeAndReclaim(s *State, h *Header) {
	runFinalizerOnce(s, h)
	dropPayload(s, h)
	deallocate(s, h)
}

// runFinalizerOnce runs h's finalizer at most once, catching any panic so
// a misbehaving finalizer cannot corrupt collector bookkeeping — finalizers
// still run even if a previous one in the same pass panicked.
func runFinalizerOnce(s *State, h *Header) {
	if !s.cfg.Finalization || h.meta.testState(stateFinalized) {
		return
	}

	h.meta.setState(stateFinalized)

	func() {
		defer func() { _ = recover() }()
		h.vtbl.finalize()
	}()

	s.stats.FinalizersRun++
}

// dropPayload destroys the payload: sets dropping/dropped, runs any
// Dropper glue, then the cleaners overlay, and finally nils the value so
// the payload itself becomes eligible for the host's own GC.
func dropPayload(s *State, h *Header) {
	h.meta.setState(stateDropping)

	func() {
		defer func() { _ = recover() }()
		h.vtbl.drop()
	}()

	if s.cfg.Cleaners {
		runCleaners(s, h)
	}

	h.meta.clearState(stateDropping)
	h.meta.setState(stateDropped)
	h.value = nil
}

// deallocate releases the header. Go has no manual free; "deallocation"
// here means marking the header as fully reclaimed and severing its own
// references (vtable, cleaner registrations) so nothing keeps it live
// longer than necessary — actual memory reclamation happens the next time
// the host garbage collector runs once no Cc/Weak handle still points here.
func deallocate(s *State, h *Header) {
	h.meta.setState(stateDeallocPending)
	h.vtbl = nil
	s.stats.LiveHeaders--
}
