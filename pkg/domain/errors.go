package domain

import "fmt"

// UnknownRoomError reports a lookup of a room id absent from the registry. It
// indicates a configuration or caller bug and is not recoverable at runtime.
type UnknownRoomError struct {
	RoomID string
}

func (e UnknownRoomError) Error() string {
	return fmt.Sprintf("unknown room %q", e.RoomID)
}

// UnknownSlotError reports a slot id that does not exist in any room.
type UnknownSlotError struct {
	SlotID string
}

func (e UnknownSlotError) Error() string {
	return fmt.Sprintf("unknown slot %q", e.SlotID)
}

// CapacityError reports that a requested quantity exceeds the empty slots
// available. The attempted operation performed zero mutation. The message
// always carries both quantities so the operator can decide the next step.
type CapacityError struct {
	// RoomID is empty when the shortage spans all rooms.
	RoomID    string
	Needed    int
	Available int
}

func (e CapacityError) Error() string {
	if e.RoomID == "" {
		return fmt.Sprintf("insufficient capacity across all rooms: need %d, have %d", e.Needed, e.Available)
	}
	return fmt.Sprintf("insufficient capacity in room %s: need %d, have %d", e.RoomID, e.Needed, e.Available)
}
