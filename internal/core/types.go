package core

import "godowncore/pkg/domain"

type (
	Room               = domain.Room
	Slot               = domain.Slot
	Occupant           = domain.Occupant
	PendingItem        = domain.PendingItem
	HistoryEntry       = domain.HistoryEntry
	SlotStatus         = domain.SlotStatus
	FillMode           = domain.FillMode
	OperationKind      = domain.OperationKind
	AllocationReceipt  = domain.AllocationReceipt
	RemovalReceipt     = domain.RemovalReceipt
	UndoReceipt        = domain.UndoReceipt
	CapacityAdvice     = domain.CapacityAdvice
	RoomStatus         = domain.RoomStatus
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
)

const (
	SlotEmpty    = domain.SlotEmpty
	SlotOccupied = domain.SlotOccupied
)

const (
	FillHorizontal = domain.FillHorizontal
	FillVertical   = domain.FillVertical
)

const (
	OperationAllocation = domain.OperationAllocation
	OperationRemoval    = domain.OperationRemoval
)

const (
	AdviceFits      = domain.AdviceFits
	AdviceAlternate = domain.AdviceAlternate
	AdviceShortage  = domain.AdviceShortage
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
)
