package core

import (
	"strings"

	"godowncore/pkg/domain"
)

// MatchSlots returns the ids of occupied slots whose id, source reference,
// display label, or contents contain the query, case-insensitively. A blank
// query means search is inactive and matches nothing, never everything.
func MatchSlots(query string, slots []domain.Slot) map[string]struct{} {
	matches := make(map[string]struct{})
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return matches
	}
	for i := range slots {
		slot := &slots[i]
		if slot.Status != domain.SlotOccupied || slot.Occupant == nil {
			continue
		}
		for _, hay := range []string{slot.ID, slot.Occupant.SourceRef, slot.Occupant.Label, slot.Occupant.Contents} {
			if strings.Contains(strings.ToLower(hay), needle) {
				matches[slot.ID] = struct{}{}
				break
			}
		}
	}
	return matches
}
