package cc

// Tracer is the capability every payload stored in a Cc handle must
// implement: enumerate every outgoing strong Cc reference the payload
// holds, in a deterministic order, without mutating the object graph or
// creating/destroying handles to collected objects — see package doc.
//
// A panic from Trace during collection is caught at the enclosing phase
// boundary, the collector's transient lists and TC fields are cleaned up,
// and the panic is re-raised to the caller of CollectCycles.
type Tracer interface {
	Trace(v *Visitor)
}

// Finalizer is implemented by payloads that want a single finalization
// pass before their strongly-connected component is reclaimed. Finalize
// may observe the object in a consistent state and may resurrect it (and
// anything reachable from it) by stashing a new Cc handle somewhere the
// collector doesn't own — see CollectCycles.
type Finalizer interface {
	Finalize()
}

// Dropper is implemented by payloads with custom teardown logic that must
// run after finalization and after the collector has confirmed the object
// is unreachable, but before the header itself is released.
type Dropper interface {
	Drop()
}

// handle is satisfied by Cc[T] for any T; it lets Visitor reach the
// underlying Header without needing a type parameter of its own.
type handle interface {
	ccHeader() *Header
}

// Visitor is the trace-visitor interface consumed by user Trace
// implementations: call Visit once per outgoing strong Cc reference.
type Visitor struct {
	fn func(*Header)
}

// Visit reports one outgoing strong reference held by the object being
// traced. A complete Trace calls Visit for every live Cc field; omitting
// one is a correctness bug the collector cannot detect.
func (v *Visitor) Visit(h handle) {
	if v == nil || h == nil {
		return
	}
	if hdr := h.ccHeader(); hdr != nil {
		v.fn(hdr)
	}
}

func visitorFunc(fn func(*Header)) *Visitor { return &Visitor{fn: fn} }
