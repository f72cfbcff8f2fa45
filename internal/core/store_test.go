package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"godowncore/pkg/domain"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	registry, err := NewRegistry(twoRooms())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return NewMemoryStore(registry, nil)
}

func TestInitializeSlotsRowMajor(t *testing.T) {
	room := domain.Room{ID: "godown-a", Code: "GA", Rows: 3, Cols: 4}
	slots := initializeSlots(room)
	if len(slots) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(slots))
	}
	if slots[0].ID != "GA-R01-C01" || slots[3].ID != "GA-R01-C04" || slots[4].ID != "GA-R02-C01" || slots[11].ID != "GA-R03-C04" {
		t.Fatalf("row-major order broken: %s %s %s %s", slots[0].ID, slots[3].ID, slots[4].ID, slots[11].ID)
	}
	for _, slot := range slots {
		if slot.Status != domain.SlotEmpty || slot.Occupant != nil {
			t.Fatalf("slot %s not initialised empty", slot.ID)
		}
		if slot.RoomID != room.ID {
			t.Fatalf("slot %s has room %q", slot.ID, slot.RoomID)
		}
	}
}

func TestCountEmptyAndFirstEmpty(t *testing.T) {
	slots := initializeSlots(domain.Room{ID: "r", Code: "R", Rows: 2, Cols: 2})
	if CountEmpty(slots) != 4 {
		t.Fatalf("expected 4 empty, got %d", CountEmpty(slots))
	}
	slots[0].Status = domain.SlotOccupied
	slots[0].Occupant = &domain.Occupant{Label: "X"}
	if CountEmpty(slots) != 3 {
		t.Fatalf("expected 3 empty, got %d", CountEmpty(slots))
	}
	first, ok := FirstEmpty(slots)
	if !ok || first.ID != "R-R01-C02" {
		t.Fatalf("first empty = %v %v", first.ID, ok)
	}

	for i := range slots {
		slots[i].Status = domain.SlotOccupied
		slots[i].Occupant = &domain.Occupant{Label: "X"}
	}
	if _, ok := FirstEmpty(slots); ok {
		t.Fatal("full room reported an empty slot")
	}
}

func TestViewReturnsIsolatedCopies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var leaked []domain.Slot
	if err := store.View(ctx, func(view TransactionView) error {
		leaked = view.RoomSlots("godown-a")
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}

	// Mutating the copy must never reach the store.
	leaked[0].Status = domain.SlotOccupied
	leaked[0].Occupant = &domain.Occupant{Label: "smuggled"}

	if err := store.View(ctx, func(view TransactionView) error {
		fresh := view.RoomSlots("godown-a")
		if fresh[0].Status != domain.SlotEmpty || fresh[0].Occupant != nil {
			return fmt.Errorf("store state mutated through a read copy: %+v", fresh[0])
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestTransactionErrorLeavesStateUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := store.RunInTransaction(ctx, func(tx *Transaction) error {
		slots, err := tx.RoomSlots("godown-a")
		if err != nil {
			return err
		}
		slots[0].Status = domain.SlotOccupied
		slots[0].Occupant = &domain.Occupant{Label: "X"}
		if err := tx.SetRoomSlots("godown-a", slots); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if err := store.View(ctx, func(view TransactionView) error {
		if CountEmpty(view.RoomSlots("godown-a")) != 100 {
			return fmt.Errorf("aborted transaction leaked state")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestInvariantRulesBlockCorruptWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Occupied without occupant data trips slot exclusivity.
	_, err := store.RunInTransaction(ctx, func(tx *Transaction) error {
		slots, err := tx.RoomSlots("godown-a")
		if err != nil {
			return err
		}
		slots[7].Status = domain.SlotOccupied
		return tx.SetRoomSlots("godown-a", slots)
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if !violation.Result.HasBlocking() {
		t.Fatalf("expected blocking violations: %+v", violation.Result)
	}

	// Shrinking the array trips grid consistency.
	_, err = store.RunInTransaction(ctx, func(tx *Transaction) error {
		slots, err := tx.RoomSlots("godown-a")
		if err != nil {
			return err
		}
		return tx.SetRoomSlots("godown-a", slots[:99])
	})
	if !errors.As(err, &violation) {
		t.Fatalf("expected RuleViolationError for truncated grid, got %v", err)
	}

	// Both rejected writes must have left the store intact.
	if err := store.View(ctx, func(view TransactionView) error {
		if CountEmpty(view.RoomSlots("godown-a")) != 100 {
			return fmt.Errorf("blocked transaction leaked state")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestSetRoomSlotsUnknownRoom(t *testing.T) {
	store := newTestStore(t)
	_, err := store.RunInTransaction(context.Background(), func(tx *Transaction) error {
		return tx.SetRoomSlots("godown-z", nil)
	})
	var unknown domain.UnknownRoomError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownRoomError, got %v", err)
	}
}

func TestSetNowFuncControlsTransactionTime(t *testing.T) {
	store := newTestStore(t)
	fixed := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })

	_, err := store.RunInTransaction(context.Background(), func(tx *Transaction) error {
		if !tx.Now().Equal(fixed) {
			return fmt.Errorf("tx time = %s, want %s", tx.Now(), fixed)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
