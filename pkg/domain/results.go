package domain

import "fmt"

// AllocationReceipt reports a committed allocation back to the caller.
type AllocationReceipt struct {
	RoomID string
	// SlotIDs lists the consumed slots in commit order.
	SlotIDs []string
	// Allocated is the number of slots that transitioned empty→occupied.
	Allocated int
	// PendingLeft is the number of pending items remaining after the commit.
	PendingLeft int
}

// AdviceKind classifies a capacity advisory.
type AdviceKind string

// Advisory outcomes in triage order.
const (
	// AdviceFits: the current room has enough empty slots.
	AdviceFits AdviceKind = "fits"
	// AdviceAlternate: the current room is short but another room would fit.
	// State is never switched automatically; the caller must act on it.
	AdviceAlternate AdviceKind = "alternate"
	// AdviceShortage: no single room can hold the requirement.
	AdviceShortage AdviceKind = "shortage"
)

// CapacityAdvice is the advisor's read-only verdict for one quantity
// requirement against a target room.
type CapacityAdvice struct {
	Kind     AdviceKind
	RoomID   string
	Required int
	// FreeInRoom is the empty-slot count of the target room.
	FreeInRoom int
	// StartSlotID is the suggested allocation start, the first empty slot of
	// the target room. Set only when Kind is AdviceFits.
	StartSlotID string
	// AlternateRoomID/Name/Free describe the recommended room when Kind is
	// AdviceAlternate.
	AlternateRoomID   string
	AlternateRoomName string
	AlternateFree     int
	// TotalFree is the empty-slot count summed across all rooms. Set when Kind
	// is AdviceShortage.
	TotalFree int
}

// String renders the advice with the concrete quantities the operator needs.
func (a CapacityAdvice) String() string {
	switch a.Kind {
	case AdviceFits:
		return fmt.Sprintf("room %s fits %d (have %d empty, start at %s)", a.RoomID, a.Required, a.FreeInRoom, a.StartSlotID)
	case AdviceAlternate:
		return fmt.Sprintf("room %s short for %d (have %d empty); %s has %d empty", a.RoomID, a.Required, a.FreeInRoom, a.AlternateRoomName, a.AlternateFree)
	default:
		return fmt.Sprintf("no room fits %d; %d empty slots across all rooms", a.Required, a.TotalFree)
	}
}

// RemovalReceipt reports the outcome of a removal or clear operation.
type RemovalReceipt struct {
	RoomID string
	// Freed is the number of slots that transitioned occupied→empty.
	Freed int
	// AlreadyEmpty marks the informational no-op of clearing a room that held
	// nothing; no history entry was recorded.
	AlreadyEmpty bool
}

// UndoReceipt reports the outcome of an undo request.
type UndoReceipt struct {
	// Undone is false when the history stack was empty, an informational
	// condition rather than an error.
	Undone      bool
	Kind        OperationKind
	RoomID      string
	Description string
}

// RoomStatus summarises one room for presentation callers. Slots is a copy and
// safe to retain.
type RoomStatus struct {
	Room     Room
	Free     int
	Occupied int
	Slots    []Slot
}
