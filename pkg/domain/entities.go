// Package domain defines the entities, result values, invariant rule
// primitives, and error taxonomy shared by the warehouse slot allocation core.
package domain

import (
	"fmt"
	"time"
)

// SlotStatus identifies the occupancy state of a storage slot. Slots only ever
// move empty→occupied (allocation) or occupied→empty (removal).
type SlotStatus string

// Supported slot statuses.
const (
	// SlotEmpty marks a slot holding no cargo.
	SlotEmpty SlotStatus = "empty"
	// SlotOccupied marks a slot holding cargo.
	SlotOccupied SlotStatus = "occupied"
)

// FillMode selects the directional strategy used to pick which empty slots an
// allocation consumes next.
type FillMode string

// Supported fill modes.
const (
	// FillHorizontal scans the room row-major from the start slot to the end of
	// the grid, then wraps to the beginning.
	FillHorizontal FillMode = "horizontal"
	// FillVertical scans column-major starting at the start slot's column and
	// row. The wrap order within and across columns is fixed; see the
	// allocation engine.
	FillVertical FillMode = "vertical"
)

// OperationKind identifies the mutation class recorded by a history entry.
type OperationKind string

// Supported history operation kinds.
const (
	OperationAllocation OperationKind = "allocation"
	OperationRemoval    OperationKind = "removal"
)

// Room describes one storage room as a fixed grid of slots. Rooms are static
// configuration and are never mutated after registry construction.
type Room struct {
	ID   string
	Name string
	// Code is the short prefix embedded in every slot id of the room.
	Code string
	Rows int
	Cols int
}

// Capacity returns the total number of slots in the room grid.
func (r Room) Capacity() int { return r.Rows * r.Cols }

// SlotID builds the deterministic slot identifier for a room code and 1-based
// row/column coordinates, e.g. "GA-R01-C05". Slot ids are globally unique as
// long as room codes are, which the registry enforces.
func SlotID(code string, row, col int) string {
	return fmt.Sprintf("%s-R%02d-C%02d", code, row, col)
}

// Occupant carries the cargo metadata attached to an occupied slot. A slot
// with status SlotEmpty never holds an occupant.
type Occupant struct {
	// ContentID references the pending item the stored unit came from.
	ContentID string
	// Label is the display label: the item prefix, or a generic placeholder
	// when the item has none.
	Label string
	// SourceRef is the originating consignment reference.
	SourceRef string
	Contents  string
	Packing   string
	// AllocatedAt is the commit time of the allocation that filled the slot.
	AllocatedAt time.Time
}

// Slot is a single storage position within a room grid.
type Slot struct {
	ID     string
	RoomID string
	Row    int
	Col    int
	Status SlotStatus
	// Occupant is nil exactly when Status is SlotEmpty.
	Occupant *Occupant
}

// Occupied reports whether the slot currently holds cargo.
func (s Slot) Occupied() bool { return s.Status == SlotOccupied }

// PendingItem is a unit of cargo awaiting physical storage assignment.
// Quantity is the number of slots the item requires. Weight is display-only
// and never enters allocation math.
type PendingItem struct {
	ID       string
	Quantity int
	Contents string
	Packing  string
	Prefix   string
	Weight   float64
}

// HistoryEntry captures the full pre-mutation state needed to undo one
// allocation or removal: the touched room's entire slot array and the pending
// item list as they were immediately before the mutation.
type HistoryEntry struct {
	ID          string
	Kind        OperationKind
	RoomID      string
	Slots       []Slot
	Pending     []PendingItem
	RecordedAt  time.Time
	Description string
}
