package core

import (
	"context"
	"sync"
	"time"

	"godowncore/pkg/domain"
)

type memoryState struct {
	rooms       map[string][]domain.Slot
	pending     []domain.PendingItem
	consignment string
}

func newMemoryState() memoryState {
	return memoryState{rooms: make(map[string][]domain.Slot)}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for id, slots := range s.rooms {
		cloned.rooms[id] = cloneSlots(slots)
	}
	cloned.pending = clonePending(s.pending)
	cloned.consignment = s.consignment
	return cloned
}

// roomOf locates the room holding the slot id. Slot ids are globally unique,
// so the first hit is the only one.
func (s memoryState) roomOf(slotID string) (string, bool) {
	for roomID, slots := range s.rooms {
		for i := range slots {
			if slots[i].ID == slotID {
				return roomID, true
			}
		}
	}
	return "", false
}

func cloneSlots(slots []domain.Slot) []domain.Slot {
	out := make([]domain.Slot, len(slots))
	copy(out, slots)
	for i := range out {
		if out[i].Occupant != nil {
			occ := *out[i].Occupant
			out[i].Occupant = &occ
		}
	}
	return out
}

func clonePending(items []domain.PendingItem) []domain.PendingItem {
	return append([]domain.PendingItem(nil), items...)
}

// MemoryStore owns the in-memory room→slot mapping and the active pending
// list. State is rebuilt from static configuration on every process start;
// there is deliberately no durable backing. Every mutation replaces whole slot
// arrays on a cloned state and commits by swapping the state value, so a
// concurrently running reader always observes either the full pre- or full
// post-mutation state.
type MemoryStore struct {
	mu       sync.RWMutex
	registry *Registry
	state    memoryState
	engine   *domain.RulesEngine
	nowFn    func() time.Time
}

// NewMemoryStore initialises every configured room with an all-empty grid and
// wires the invariant rules evaluated on each transaction.
func NewMemoryStore(registry *Registry, engine *domain.RulesEngine) *MemoryStore {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	state := newMemoryState()
	for _, room := range registry.List() {
		state.rooms[room.ID] = initializeSlots(room)
	}
	return &MemoryStore{
		registry: registry,
		state:    state,
		engine:   engine,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the transaction clock. Intended for deterministic
// timestamps; pass nil to restore the wall clock.
func (s *MemoryStore) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		fn = func() time.Time { return time.Now().UTC() }
	}
	s.nowFn = fn
}

// initializeSlots produces the rows×cols empty grid in row-major order.
func initializeSlots(room domain.Room) []domain.Slot {
	slots := make([]domain.Slot, 0, room.Capacity())
	for row := 1; row <= room.Rows; row++ {
		for col := 1; col <= room.Cols; col++ {
			slots = append(slots, domain.Slot{
				ID:     domain.SlotID(room.Code, row, col),
				RoomID: room.ID,
				Row:    row,
				Col:    col,
				Status: domain.SlotEmpty,
			})
		}
	}
	return slots
}

// CountEmpty returns the number of empty slots in the array.
func CountEmpty(slots []domain.Slot) int {
	n := 0
	for i := range slots {
		if slots[i].Status == domain.SlotEmpty {
			n++
		}
	}
	return n
}

// FirstEmpty returns the first empty slot in array order.
func FirstEmpty(slots []domain.Slot) (domain.Slot, bool) {
	for i := range slots {
		if slots[i].Status == domain.SlotEmpty {
			return slots[i], true
		}
	}
	return domain.Slot{}, false
}

// Transaction represents one mutation applied to a cloned copy of the store
// state. Nothing a transaction does is visible until RunInTransaction commits.
type Transaction struct {
	store *MemoryStore
	state memoryState
	now   time.Time
}

// Now returns the transaction timestamp.
func (tx *Transaction) Now() time.Time { return tx.now }

// RoomSlots returns a copy of the room's slot array.
func (tx *Transaction) RoomSlots(roomID string) ([]domain.Slot, error) {
	slots, ok := tx.state.rooms[roomID]
	if !ok {
		return nil, domain.UnknownRoomError{RoomID: roomID}
	}
	return cloneSlots(slots), nil
}

// SetRoomSlots replaces the room's entire slot array. This is the only write
// path for slot state; partial in-place mutation is never exposed.
func (tx *Transaction) SetRoomSlots(roomID string, slots []domain.Slot) error {
	if _, ok := tx.state.rooms[roomID]; !ok {
		return domain.UnknownRoomError{RoomID: roomID}
	}
	tx.state.rooms[roomID] = cloneSlots(slots)
	return nil
}

// RoomOf locates the room containing a slot id.
func (tx *Transaction) RoomOf(slotID string) (string, bool) {
	return tx.state.roomOf(slotID)
}

// Pending returns a copy of the pending item list.
func (tx *Transaction) Pending() []domain.PendingItem {
	return clonePending(tx.state.pending)
}

// SetPending replaces the pending item list.
func (tx *Transaction) SetPending(items []domain.PendingItem) {
	tx.state.pending = clonePending(items)
}

// Consignment returns the active consignment reference.
func (tx *Transaction) Consignment() string { return tx.state.consignment }

// SetConsignment records the consignment reference the pending items belong to.
func (tx *Transaction) SetConsignment(ref string) { tx.state.consignment = ref }

// TransactionView exposes a read-only state snapshot to invariant rules and
// read-path callers.
type TransactionView struct {
	registry *Registry
	state    *memoryState
}

func newTransactionView(registry *Registry, state *memoryState) TransactionView {
	return TransactionView{registry: registry, state: state}
}

// Rooms enumerates the configured rooms.
func (v TransactionView) Rooms() []domain.Room { return v.registry.List() }

// RoomSlots returns a copy of the room's slot array, or nil for an unknown id.
func (v TransactionView) RoomSlots(roomID string) []domain.Slot {
	slots, ok := v.state.rooms[roomID]
	if !ok {
		return nil
	}
	return cloneSlots(slots)
}

// Pending returns a copy of the pending item list.
func (v TransactionView) Pending() []domain.PendingItem {
	return clonePending(v.state.pending)
}

// Consignment returns the active consignment reference.
func (v TransactionView) Consignment() string { return v.state.consignment }

// RoomOf locates the room containing a slot id.
func (v TransactionView) RoomOf(slotID string) (string, bool) {
	return v.state.roomOf(slotID)
}

// RunInTransaction executes fn against a cloned state, evaluates the invariant
// rules on the result, and commits by swapping the state value. Any error from
// fn, and any blocking violation, leaves the store untouched.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(tx *Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{store: s, state: s.state.clone(), now: s.nowFn()}
	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	view := newTransactionView(s.registry, &tx.state)
	res, err := s.engine.Evaluate(ctx, view)
	if err != nil {
		return domain.Result{}, err
	}
	if res.HasBlocking() {
		return res, domain.RuleViolationError{Result: res}
	}

	s.state = tx.state
	return res, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *MemoryStore) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	return fn(newTransactionView(s.registry, &snapshot))
}
