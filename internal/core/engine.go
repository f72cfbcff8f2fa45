package core

import (
	"fmt"
	"time"

	"godowncore/pkg/domain"
)

// defaultLabel is the display label written when a pending item has no prefix.
const defaultLabel = "ITEM"

// planTargets computes the ordered list of empty slot ids a fill starting at
// startID would consume, capped at min(want, empty slots in the room). It
// never mutates anything; shortage handling belongs to the commit path.
func planTargets(room domain.Room, slots []domain.Slot, startID string, want int, mode domain.FillMode) ([]string, error) {
	start := -1
	for i := range slots {
		if slots[i].ID == startID {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, domain.UnknownSlotError{SlotID: startID}
	}

	var order []int
	switch mode {
	case domain.FillHorizontal:
		order = horizontalOrder(len(slots), start)
	case domain.FillVertical:
		order = verticalOrder(room, slots[start].Row, slots[start].Col)
	default:
		return nil, fmt.Errorf("unknown fill mode %q", mode)
	}

	targets := make([]string, 0, want)
	for _, idx := range order {
		if len(targets) == want {
			break
		}
		if slots[idx].Status == domain.SlotEmpty {
			targets = append(targets, slots[idx].ID)
		}
	}
	return targets, nil
}

// horizontalOrder visits the row-major array from start to the end, then wraps
// to visit [0, start).
func horizontalOrder(n, start int) []int {
	order := make([]int, 0, n)
	for i := start; i < n; i++ {
		order = append(order, i)
	}
	for i := 0; i < start; i++ {
		order = append(order, i)
	}
	return order
}

// verticalOrder walks the starting column from the start row to the bottom,
// then the rows above the start within that same column, then every following
// column top to bottom, finally wrapping to the columns before the start, each
// top to bottom. Only the starting column is entered mid-way; this asymmetry
// is the established fill behaviour and must not be simplified.
func verticalOrder(room domain.Room, startRow, startCol int) []int {
	idx := func(row, col int) int { return (row-1)*room.Cols + (col - 1) }
	order := make([]int, 0, room.Capacity())
	for row := startRow; row <= room.Rows; row++ {
		order = append(order, idx(row, startCol))
	}
	for row := 1; row < startRow; row++ {
		order = append(order, idx(row, startCol))
	}
	for col := startCol + 1; col <= room.Cols; col++ {
		for row := 1; row <= room.Rows; row++ {
			order = append(order, idx(row, col))
		}
	}
	for col := 1; col < startCol; col++ {
		for row := 1; row <= room.Rows; row++ {
			order = append(order, idx(row, col))
		}
	}
	return order
}

// totalQuantity sums the slot requirement across items.
func totalQuantity(items []domain.PendingItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// commitAllocation writes occupant data into a copy of the slot array,
// consuming target ids in order, one per unit of quantity. Callers must have
// verified len(targets) >= totalQuantity(items).
func commitAllocation(slots []domain.Slot, targets []string, items []domain.PendingItem, sourceRef string, now time.Time) []domain.Slot {
	byID := make(map[string]int, len(slots))
	for i := range slots {
		byID[slots[i].ID] = i
	}
	out := cloneSlots(slots)
	next := 0
	for _, item := range items {
		label := item.Prefix
		if label == "" {
			label = defaultLabel
		}
		for unit := 0; unit < item.Quantity; unit++ {
			i := byID[targets[next]]
			next++
			out[i].Status = domain.SlotOccupied
			out[i].Occupant = &domain.Occupant{
				ContentID:   item.ID,
				Label:       label,
				SourceRef:   sourceRef,
				Contents:    item.Contents,
				Packing:     item.Packing,
				AllocatedAt: now,
			}
		}
	}
	return out
}
