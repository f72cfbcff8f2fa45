package core

import (
	"fmt"

	"godowncore/pkg/domain"
)

// buildAdvice runs the capacity triage for one quantity requirement against a
// target room. Strictly read-only: it recommends, it never switches rooms.
//
//  1. Enough empty slots in the target room: suggest its first empty slot as
//     the allocation start.
//  2. Otherwise recommend the other room with the greatest empty count, if
//     that count suffices.
//  3. Otherwise report the global shortage with the summed empty count.
func buildAdvice(view TransactionView, roomID string, required int) (domain.CapacityAdvice, error) {
	if required <= 0 {
		return domain.CapacityAdvice{}, fmt.Errorf("required quantity must be positive, got %d", required)
	}

	slots := view.RoomSlots(roomID)
	if slots == nil {
		return domain.CapacityAdvice{}, domain.UnknownRoomError{RoomID: roomID}
	}

	advice := domain.CapacityAdvice{
		RoomID:     roomID,
		Required:   required,
		FreeInRoom: CountEmpty(slots),
	}

	if advice.FreeInRoom >= required {
		first, _ := FirstEmpty(slots)
		advice.Kind = domain.AdviceFits
		advice.StartSlotID = first.ID
		return advice, nil
	}

	var best domain.Room
	bestFree := -1
	total := advice.FreeInRoom
	for _, room := range view.Rooms() {
		if room.ID == roomID {
			continue
		}
		free := CountEmpty(view.RoomSlots(room.ID))
		total += free
		if free > bestFree {
			best = room
			bestFree = free
		}
	}

	if bestFree >= required {
		advice.Kind = domain.AdviceAlternate
		advice.AlternateRoomID = best.ID
		advice.AlternateRoomName = best.Name
		advice.AlternateFree = bestFree
		return advice, nil
	}

	advice.Kind = domain.AdviceShortage
	advice.TotalFree = total
	return advice, nil
}
