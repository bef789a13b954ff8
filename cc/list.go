package cc

// listKind tags which of the collector's intrusive lists currently owns a
// header. It exists purely to let pedantic-debug-assertions mode (and the
// test suite) verify that a header is never linked into two lists at
// once; the STATE flags are the load-bearing membership record.
type listKind uint8

const (
	listNone listKind = iota
	listPossibleCycles
	listTraced
	listNonRoot
	listToFinalize
	listToDrop
	listToDealloc
)

// list is a doubly-linked, intrusive, allocation-free list threaded through
// Header.listNext/listPrev. Every operation is O(1); no list ever owns more
// than the headers explicitly added to it.
type list struct {
	kind listKind
	head *Header
	tail *Header
	len  int
}

func newList(kind listKind) list { return list{kind: kind} }

// link physically threads h onto the tail of l. It cannot fail.
func (l *list) link(h *Header) {
	h.listPrev = l.tail
	h.listNext = nil
	if l.tail != nil {
		l.tail.listNext = h
	} else {
		l.head = h
	}
	l.tail = h
	l.len++
}

// unlink physically removes h from l. It cannot fail.
func (l *list) unlink(h *Header) {
	if h.listPrev != nil {
		h.listPrev.listNext = h.listNext
	} else {
		l.head = h.listNext
	}
	if h.listNext != nil {
		h.listNext.listPrev = h.listPrev
	} else {
		l.tail = h.listPrev
	}
	h.listPrev = nil
	h.listNext = nil
	l.len--
}

// drain moves every header off l into a freshly returned list of the same
// kind, leaving l empty. Used by collection phase 0 to take ownership of
// POSSIBLE_CYCLES without the mutator being able to race new roots onto it
// mid-collection (there is no mutator concurrency in this single-threaded
// design, but the swap keeps the bookkeeping identical to a concurrent
// implementation and keeps phase 0 a single O(1) operation).
func (l *list) drain() *list {
	out := &list{kind: l.kind, head: l.head, tail: l.tail, len: l.len}
	l.head, l.tail, l.len = nil, nil, 0
	return out
}

// addToList performs 's add(list, header) discipline: any fallible
// bookkeeping (here, the pedantic-debug-assertion that h isn't already
// linked elsewhere) runs first, then the link, and only once the link has
// succeeded does the membership state flag get set. If the assertion
// panics, h is left unlinked and the flag untouched.
func addToList(l *list, h *Header, member stateFlags, pedantic bool) {
	if pedantic && h.onList != listNone {
		panic("cc: header already linked to another list (pedantic-debug-assertions)")
	}

	l.link(h)
	h.meta.setState(member)
	h.onList = l.kind
}

// removeFromList performs 's remove(list, header) discipline in
// reverse: the membership flag is cleared first, then the header is
// unlinked. A header is therefore never observed linked-but-unflagged nor
// flagged-but-unlinked across a panic boundary.
func removeFromList(l *list, h *Header, member stateFlags) {
	h.meta.clearState(member)
	l.unlink(h)
	h.onList = listNone
}

// move relocates h from src to dst, clearing fromFlag and setting toFlag as
// part of the same transition — the collector never observes h as a member
// of zero or two lists simultaneously.
func move(src, dst *list, h *Header, fromFlag, toFlag stateFlags, pedantic bool) {
	removeFromList(src, h, fromFlag)
	addToList(dst, h, toFlag, pedantic)
}

// forEach safely iterates l, tolerating removal of the current node (but
// not of not-yet-visited nodes) from within fn — the shape every collector
// phase needs since phases frequently unlink the node they are visiting.
func (l *list) forEach(fn func(*Header)) {
	for n := l.head; n != nil; {
		next := n.listNext
		fn(n)
		n = next
	}
}
