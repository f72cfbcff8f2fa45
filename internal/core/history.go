package core

import "godowncore/pkg/domain"

// HistoryLimit is the default bound of the undo stack. Entries past the bound
// are evicted oldest-first without notice.
const HistoryLimit = 10

// History is the bounded undo stack of full pre-mutation snapshots. Full-array
// snapshots are deliberate: at this grid scale a wholesale restore is the
// simplest strategy that is correct for every mutation shape, where inverse
// journaling would have to mirror each operation.
type History struct {
	entries []domain.HistoryEntry
	limit   int
}

// NewHistory constructs a stack bounded at limit entries; a non-positive limit
// selects HistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{limit: limit}
}

// Record pushes an entry, silently discarding the oldest entry once the bound
// is exceeded.
func (h *History) Record(entry domain.HistoryEntry) {
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.limit {
		h.entries = append([]domain.HistoryEntry(nil), h.entries[len(h.entries)-h.limit:]...)
	}
}

// Pop removes and returns the most recent entry.
func (h *History) Pop() (domain.HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return domain.HistoryEntry{}, false
	}
	entry := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return entry, true
}

// Depth returns the number of undoable entries.
func (h *History) Depth() int { return len(h.entries) }
