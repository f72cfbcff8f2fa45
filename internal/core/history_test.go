package core

import (
	"fmt"
	"testing"

	"godowncore/pkg/domain"
)

func TestHistoryPopsMostRecentFirst(t *testing.T) {
	h := NewHistory(0)
	if h.Depth() != 0 {
		t.Fatalf("fresh history depth = %d", h.Depth())
	}
	h.Record(domain.HistoryEntry{ID: "first"})
	h.Record(domain.HistoryEntry{ID: "second"})

	entry, ok := h.Pop()
	if !ok || entry.ID != "second" {
		t.Fatalf("pop = %q %v, want second", entry.ID, ok)
	}
	entry, ok = h.Pop()
	if !ok || entry.ID != "first" {
		t.Fatalf("pop = %q %v, want first", entry.ID, ok)
	}
	if _, ok := h.Pop(); ok {
		t.Fatal("pop on empty stack reported an entry")
	}
}

func TestHistoryEvictsOldestPastBound(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 13; i++ {
		h.Record(domain.HistoryEntry{ID: fmt.Sprintf("entry-%d", i)})
	}
	if h.Depth() != 10 {
		t.Fatalf("depth = %d, want 10", h.Depth())
	}
	// Newest survives; entries 1-3 were silently evicted.
	for i := 13; i >= 4; i-- {
		entry, ok := h.Pop()
		if !ok || entry.ID != fmt.Sprintf("entry-%d", i) {
			t.Fatalf("pop = %q %v, want entry-%d", entry.ID, ok, i)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Fatal("evicted entries still present")
	}
}

func TestHistoryCustomLimit(t *testing.T) {
	h := NewHistory(2)
	h.Record(domain.HistoryEntry{ID: "a"})
	h.Record(domain.HistoryEntry{ID: "b"})
	h.Record(domain.HistoryEntry{ID: "c"})
	if h.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", h.Depth())
	}
	entry, _ := h.Pop()
	if entry.ID != "c" {
		t.Fatalf("top = %q, want c", entry.ID)
	}
}
