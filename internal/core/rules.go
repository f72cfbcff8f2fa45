package core

import (
	"context"
	"fmt"

	"godowncore/pkg/domain"
)

// NewDefaultRulesEngine returns the engine enforcing the grid invariants every
// transaction must preserve.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(slotExclusivityRule{})
	engine.Register(gridConsistencyRule{})
	return engine
}

// slotExclusivityRule blocks any state where occupant data and the empty
// status coexist on a slot, in either direction.
type slotExclusivityRule struct{}

func (slotExclusivityRule) Name() string { return "slot_exclusivity" }

func (slotExclusivityRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	for _, room := range view.Rooms() {
		for _, slot := range view.RoomSlots(room.ID) {
			switch slot.Status {
			case domain.SlotEmpty:
				if slot.Occupant != nil {
					res.Violations = append(res.Violations, domain.Violation{
						Rule:     "slot_exclusivity",
						Severity: domain.SeverityBlock,
						Message:  fmt.Sprintf("empty slot %s carries occupant data", slot.ID),
						RoomID:   room.ID,
						SlotID:   slot.ID,
					})
				}
			case domain.SlotOccupied:
				if slot.Occupant == nil {
					res.Violations = append(res.Violations, domain.Violation{
						Rule:     "slot_exclusivity",
						Severity: domain.SeverityBlock,
						Message:  fmt.Sprintf("occupied slot %s has no occupant data", slot.ID),
						RoomID:   room.ID,
						SlotID:   slot.ID,
					})
				}
			default:
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "slot_exclusivity",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("slot %s has unknown status %q", slot.ID, slot.Status),
					RoomID:   room.ID,
					SlotID:   slot.ID,
				})
			}
		}
	}
	return res, nil
}

// gridConsistencyRule blocks any state where a room's slot array no longer
// matches its configured grid: wrong length, out-of-range coordinates, ids
// that disagree with the room code, or ids duplicated across rooms. Together
// with slot exclusivity this guarantees
// countEmpty(room) + countOccupied(room) == capacity(room).
type gridConsistencyRule struct{}

func (gridConsistencyRule) Name() string { return "grid_consistency" }

func (gridConsistencyRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	seen := make(map[string]string)
	for _, room := range view.Rooms() {
		slots := view.RoomSlots(room.ID)
		if len(slots) != room.Capacity() {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "grid_consistency",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("room %s holds %d slots for capacity %d", room.ID, len(slots), room.Capacity()),
				RoomID:   room.ID,
			})
			continue
		}
		for _, slot := range slots {
			if other, dup := seen[slot.ID]; dup {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "grid_consistency",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("slot id %s appears in rooms %s and %s", slot.ID, other, room.ID),
					RoomID:   room.ID,
					SlotID:   slot.ID,
				})
				continue
			}
			seen[slot.ID] = room.ID
			if slot.RoomID != room.ID || slot.Row < 1 || slot.Row > room.Rows || slot.Col < 1 || slot.Col > room.Cols {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "grid_consistency",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("slot %s misplaced at room=%s row=%d col=%d", slot.ID, slot.RoomID, slot.Row, slot.Col),
					RoomID:   room.ID,
					SlotID:   slot.ID,
				})
				continue
			}
			if want := domain.SlotID(room.Code, slot.Row, slot.Col); slot.ID != want {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "grid_consistency",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("slot at row=%d col=%d of room %s has id %s, want %s", slot.Row, slot.Col, room.ID, slot.ID, want),
					RoomID:   room.ID,
					SlotID:   slot.ID,
				})
			}
		}
	}
	return res, nil
}
