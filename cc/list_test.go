package cc

import "testing"

func TestList_AddRemove(t *testing.T) {
	l := newList(listPossibleCycles)
	h := &Header{}

	addToList(&l, h, stateBuffered, true)

	if l.len != 1 {
		t.Fatalf("len = %d, want 1", l.len)
	}
	if !h.meta.testState(stateBuffered) {
		t.Fatal("stateBuffered should be set after addToList")
	}
	if h.onList != listPossibleCycles {
		t.Fatalf("onList = %v, want listPossibleCycles", h.onList)
	}

	removeFromList(&l, h, stateBuffered)

	if l.len != 0 {
		t.Fatalf("len = %d, want 0", l.len)
	}
	if h.meta.testState(stateBuffered) {
		t.Fatal("stateBuffered should be cleared after removeFromList")
	}
	if h.onList != listNone {
		t.Fatalf("onList = %v, want listNone", h.onList)
	}
}

func TestList_PedanticDoubleLinkPanics(t *testing.T) {
	l1 := newList(listPossibleCycles)
	l2 := newList(listTraced)
	h := &Header{}

	addToList(&l1, h, stateBuffered, true)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic linking an already-linked header under pedantic assertions")
		}
	}()

	addToList(&l2, h, stateTraced, true)
}

func TestList_Move(t *testing.T) {
	src := newList(listTraced)
	dst := newList(listNonRoot)
	h := &Header{}

	addToList(&src, h, stateTraced, true)
	move(&src, &dst, h, stateTraced, stateNonRoot, true)

	if src.len != 0 || dst.len != 1 {
		t.Fatalf("src.len=%d dst.len=%d, want 0,1", src.len, dst.len)
	}
	if h.meta.testState(stateTraced) {
		t.Fatal("stateTraced should be cleared after move")
	}
	if !h.meta.testState(stateNonRoot) {
		t.Fatal("stateNonRoot should be set after move")
	}
	if h.onList != listNonRoot {
		t.Fatalf("onList = %v, want listNonRoot", h.onList)
	}
}

func TestList_Drain(t *testing.T) {
	l := newList(listPossibleCycles)
	h1, h2 := &Header{}, &Header{}
	addToList(&l, h1, stateBuffered, true)
	addToList(&l, h2, stateBuffered, true)

	out := l.drain()

	if l.len != 0 || l.head != nil || l.tail != nil {
		t.Fatal("source list should be empty after drain")
	}
	if out.len != 2 {
		t.Fatalf("drained len = %d, want 2", out.len)
	}

	var seen []*Header
	out.forEach(func(h *Header) { seen = append(seen, h) })
	if len(seen) != 2 || seen[0] != h1 || seen[1] != h2 {
		t.Fatalf("forEach order = %v, want [h1 h2]", seen)
	}
}

func TestList_ForEachToleratesRemoval(t *testing.T) {
	l := newList(listPossibleCycles)
	h1, h2, h3 := &Header{}, &Header{}, &Header{}
	addToList(&l, h1, stateBuffered, true)
	addToList(&l, h2, stateBuffered, true)
	addToList(&l, h3, stateBuffered, true)

	var seen []*Header
	l.forEach(func(h *Header) {
		seen = append(seen, h)
		removeFromList(&l, h, stateBuffered)
	})

	if len(seen) != 3 {
		t.Fatalf("forEach visited %d headers, want 3", len(seen))
	}
	if l.len != 0 {
		t.Fatalf("len = %d, want 0 after removing every visited header", l.len)
	}
}
