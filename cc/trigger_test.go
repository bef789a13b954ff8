package cc

import "testing"

func TestTrigger_FiresOnAllocThreshold(t *testing.T) {
	cfg := DefaultConfig
	cfg.AllocThreshold = 3
	cfg.BufferedThreshold = 0
	s := NewState(cfg)

	a := newNode(s, "a")
	b := newNode(s, "b")
	link(s, a, b)
	link(s, b, a)
	a.DropIn(s)
	b.DropIn(s) // buffers a,b so the eventual triggered collection has real work to do

	for i := 0; i < 3; i++ {
		newNode(s, "n")
	}

	if s.Stats().CollectionsRun != 1 {
		t.Fatalf("CollectionsRun = %d, want 1 once AllocThreshold is crossed", s.Stats().CollectionsRun)
	}
	if s.PossibleCycles() != 0 {
		t.Fatalf("PossibleCycles() = %d, want 0 once the triggered collection reclaims the buffered cycle", s.PossibleCycles())
	}
}

func TestTrigger_DisabledWhenAutoCollectFalse(t *testing.T) {
	cfg := DefaultConfig
	cfg.AutoCollect = false
	cfg.AllocThreshold = 1
	s := NewState(cfg)

	for i := 0; i < 5; i++ {
		newNode(s, "n")
	}

	if s.Stats().CollectionsRun != 0 {
		t.Fatalf("CollectionsRun = %d, want 0 with AutoCollect disabled", s.Stats().CollectionsRun)
	}
}

func TestTrigger_FiresOnBufferedThreshold(t *testing.T) {
	cfg := DefaultConfig
	cfg.AllocThreshold = 0
	cfg.BufferedThreshold = 2
	s := NewState(cfg)

	a := newNode(s, "a")
	b := newNode(s, "b")
	link(s, a, b)
	link(s, b, a)

	a2 := a.CloneIn(s)
	b2 := b.CloneIn(s)
	a.DropIn(s)
	b.DropIn(s)

	if s.PossibleCycles() != 2 {
		t.Fatalf("PossibleCycles() = %d, want 2 before the next allocation trips the threshold", s.PossibleCycles())
	}

	newNode(s, "trigger") // this allocation's onAllocate check should fire the collector

	if s.Stats().CollectionsRun == 0 {
		t.Fatal("expected a collection once BufferedThreshold was crossed")
	}

	a2.DropIn(s)
	b2.DropIn(s)
}

func TestTrigger_ResetAfterCollection(t *testing.T) {
	cfg := DefaultConfig
	cfg.AllocThreshold = 2
	s := NewState(cfg)

	newNode(s, "a")
	newNode(s, "b") // trips AllocThreshold, triggers a collection and a reset

	if s.trigger.sinceCollection != 0 {
		t.Fatalf("sinceCollection = %d, want 0 right after a triggered collection", s.trigger.sinceCollection)
	}
}
