package cc

import "fmt"

// vtable is the dispatch handle a Header carries for its payload's trace,
// finalize, and drop glue, built once at allocation time. Go's type-erasure
// via the `any` interface, closed over at Allocate time, stands in for the
// derive-macro-generated vtable a language with compile-time reflection
// would synthesize automatically.
type vtable struct {
	trace    func(v *Visitor)
	finalize func()
	drop     func()
	typeName string
}

// Header is CcBox<T>: the per-allocation metadata plus user payload,
// type-erased to `any` so headers of different payload types can share the
// collector's intrusive lists. Cc[T] is the typed handle layered on top.
type Header struct {
	meta word

	// list linkage: exactly one of POSSIBLE_CYCLES/TRACED/NON_ROOT/
	// TO_FINALIZE/TO_DROP/TO_DEALLOC owns a header at a time.
	listNext, listPrev *Header
	onList             listKind

	vtbl  *vtable
	value any
}

// RC returns the current strong reference count. Exposed for diagnostics
// and tests; not part of the hot path.
func (h *Header) RC() uint32 { return h.meta.rc }

// TC returns the current tracing counter. Zero outside of collection.
func (h *Header) TC() uint32 { return h.meta.tc }

// IsValid reports whether the payload has not yet been dropped — the core
// external operation is_valid(header_ptr), used by the weak-pointer
// overlay to decide whether an upgrade may succeed.
func (h *Header) IsValid() bool {
	return h != nil && !h.meta.testState(stateDropped)
}

func (h *Header) String() string {
	return fmt.Sprintf("CcBox[%s]{rc:%d tc:%d state:%#x}", h.vtbl.typeName, h.meta.rc, h.meta.tc, h.meta.state)
}

// isLeaf reports whether the payload's trace set is currently empty: a
// header with no outgoing strong handles right now cannot itself anchor a
// cycle, so DropHandle may skip buffering it onto POSSIBLE_CYCLES. This is
// a property of the object's *current* state, not its type — Trace's
// determinism guarantee (§4.1) only holds "on an unchanged object," and an
// object that is childless today may hold handles tomorrow. So this runs
// Trace fresh on every call rather than caching the first result: a cached
// leafVal=true can never un-cache once the payload is mutated into holding
// outgoing edges, which would let a cycle built entirely out of what were
// leaves at allocation time permanently escape POSSIBLE_CYCLES.
func (h *Header) isLeaf() bool {
	any := false
	h.vtbl.trace(visitorFunc(func(*Header) { any = true }))
	return !any
}

// buildVTable closes over value (captured at allocation time, the same
// object the returned Header.value holds) to produce the trace/finalize/
// drop dispatch triple.
func buildVTable[T Tracer](value T) *vtable {
	vt := &vtable{
		typeName: fmt.Sprintf("%T", value),
		trace:    value.Trace,
	}

	if f, ok := any(value).(Finalizer); ok {
		vt.finalize = f.Finalize
	} else {
		vt.finalize = func() {}
	}

	if d, ok := any(value).(Dropper); ok {
		vt.drop = d.Drop
	} else {
		vt.drop = func() {}
	}

	return vt
}
