package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"godowncore/pkg/domain"
)

// Service exposes the warehouse allocation operations to presentation
// callers: capacity advice, slot allocation, removal, undo, and search. Every
// mutation is atomic at the room level and wrapped by the undo history. The
// service returns discrete result values and never renders them itself.
type Service struct {
	registry *Registry
	store    *MemoryStore
	history  *History

	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock

	historyLimit int
}

// Option customises service construction.
type Option func(*Service)

// WithLogger wires a structured logger; the default discards everything.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditRecorder wires an audit sink receiving one entry per operation.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithMetricsRecorder wires an operation metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer wires a span tracer around every operation.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the timestamp source for allocations and history.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithHistoryLimit overrides the undo stack bound.
func WithHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// NewService constructs a service over a fresh all-empty store built from the
// registry. State lives only for the process lifetime.
func NewService(registry *Registry, opts ...Option) *Service {
	s := &Service{
		registry:     registry,
		logger:       noopLogger{},
		audit:        noopAuditRecorder{},
		metrics:      noopMetricsRecorder{},
		tracer:       noopTracer{},
		clock:        ClockFunc(nil),
		historyLimit: HistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.history = NewHistory(s.historyLimit)
	s.store = NewMemoryStore(registry, NewDefaultRulesEngine())
	s.store.SetNowFunc(s.clock.Now)
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() *MemoryStore { return s.store }

// HistoryDepth returns the number of undoable operations.
func (s *Service) HistoryDepth() int { return s.history.Depth() }

// begin opens the observability scope for one operation. The returned finish
// func records the span, metric, and audit entry.
func (s *Service) begin(ctx context.Context, op string) (context.Context, func(roomID string, err error)) {
	started := time.Now()
	at := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	return ctx, func(roomID string, err error) {
		span.End(err)
		s.metrics.Observe(ctx, op, err == nil, time.Since(started))
		entry := AuditEntry{Operation: op, RoomID: roomID, Status: AuditStatusSuccess, At: at}
		if err != nil {
			entry.Status = AuditStatusError
			entry.Detail = err.Error()
		}
		s.audit.Record(ctx, entry)
	}
}

// Rooms enumerates the configured rooms in registry order.
func (s *Service) Rooms(_ context.Context) []domain.Room {
	return s.registry.List()
}

// RoomStatus reports one room's occupancy snapshot.
func (s *Service) RoomStatus(ctx context.Context, roomID string) (domain.RoomStatus, error) {
	room, err := s.registry.Get(roomID)
	if err != nil {
		return domain.RoomStatus{}, err
	}
	var status domain.RoomStatus
	err = s.store.View(ctx, func(view TransactionView) error {
		slots := view.RoomSlots(roomID)
		free := CountEmpty(slots)
		status = domain.RoomStatus{
			Room:     room,
			Free:     free,
			Occupied: len(slots) - free,
			Slots:    slots,
		}
		return nil
	})
	return status, err
}

// Pending returns the active consignment reference and its remaining items.
func (s *Service) Pending(ctx context.Context) (string, []domain.PendingItem, error) {
	var (
		ref   string
		items []domain.PendingItem
	)
	err := s.store.View(ctx, func(view TransactionView) error {
		ref = view.Consignment()
		items = view.Pending()
		return nil
	})
	return ref, items, err
}

// LoadPending hands a consignment's pending items to the core, replacing any
// previously loaded list. Item acquisition happens outside the core; this is
// the hand-over boundary. Items without an id are assigned one.
func (s *Service) LoadPending(ctx context.Context, consignment string, items []domain.PendingItem) (int, error) {
	ctx, finish := s.begin(ctx, "load_pending")
	var err error
	defer func() { finish("", err) }()

	prepared := make([]domain.PendingItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			err = fmt.Errorf("pending item %q: quantity must be positive, got %d", item.ID, item.Quantity)
			return 0, err
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		prepared = append(prepared, item)
	}

	_, err = s.store.RunInTransaction(ctx, func(tx *Transaction) error {
		tx.SetConsignment(consignment)
		tx.SetPending(prepared)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("pending items loaded", "consignment", consignment, "items", len(prepared))
	return len(prepared), nil
}

// Advise runs the read-only capacity triage for a quantity requirement
// against a target room.
func (s *Service) Advise(ctx context.Context, roomID string, required int) (domain.CapacityAdvice, error) {
	ctx, finish := s.begin(ctx, "advise")
	var (
		advice domain.CapacityAdvice
		err    error
	)
	defer func() { finish(roomID, err) }()

	err = s.store.View(ctx, func(view TransactionView) error {
		advice, err = buildAdvice(view, roomID, required)
		return err
	})
	return advice, err
}

// PlanTargets computes, without committing, the ordered empty slot ids an
// allocation of quantity starting at startSlotID would consume.
func (s *Service) PlanTargets(ctx context.Context, startSlotID string, mode domain.FillMode, quantity int) ([]string, error) {
	ctx, finish := s.begin(ctx, "plan_targets")
	var (
		targets []string
		roomID  string
		err     error
	)
	defer func() { finish(roomID, err) }()

	if quantity <= 0 {
		err = fmt.Errorf("quantity must be positive, got %d", quantity)
		return nil, err
	}
	err = s.store.View(ctx, func(view TransactionView) error {
		id, ok := view.RoomOf(startSlotID)
		if !ok {
			return domain.UnknownSlotError{SlotID: startSlotID}
		}
		roomID = id
		room, lookupErr := s.registry.Get(roomID)
		if lookupErr != nil {
			return lookupErr
		}
		var planErr error
		targets, planErr = planTargets(room, view.RoomSlots(roomID), startSlotID, quantity, mode)
		return planErr
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// AllocationRequest names the start slot, fill direction, and the pending
// items to place. An empty ItemIDs selects every loaded item.
type AllocationRequest struct {
	StartSlotID string
	Mode        domain.FillMode
	ItemIDs     []string
}

// Allocate commits the requested items into the room containing the start
// slot. The commit is all-or-nothing: a shortage reports CapacityError with
// the concrete numbers and leaves the room byte-identical. On success the
// consumed items leave the pending list and the pre-mutation state is pushed
// onto the undo history.
func (s *Service) Allocate(ctx context.Context, req AllocationRequest) (domain.AllocationReceipt, error) {
	ctx, finish := s.begin(ctx, "allocate")
	var (
		receipt domain.AllocationReceipt
		entry   domain.HistoryEntry
		err     error
	)
	defer func() { finish(receipt.RoomID, err) }()

	_, err = s.store.RunInTransaction(ctx, func(tx *Transaction) error {
		roomID, ok := tx.RoomOf(req.StartSlotID)
		if !ok {
			return domain.UnknownSlotError{SlotID: req.StartSlotID}
		}
		room, lookupErr := s.registry.Get(roomID)
		if lookupErr != nil {
			return lookupErr
		}
		slots, slotsErr := tx.RoomSlots(roomID)
		if slotsErr != nil {
			return slotsErr
		}
		pending := tx.Pending()
		items, remaining, selectErr := selectItems(pending, req.ItemIDs)
		if selectErr != nil {
			return selectErr
		}

		total := totalQuantity(items)
		targets, planErr := planTargets(room, slots, req.StartSlotID, total, req.Mode)
		if planErr != nil {
			return planErr
		}
		if len(targets) < total {
			return domain.CapacityError{RoomID: roomID, Needed: total, Available: CountEmpty(slots)}
		}

		entry = domain.HistoryEntry{
			ID:          uuid.NewString(),
			Kind:        domain.OperationAllocation,
			RoomID:      roomID,
			Slots:       slots,
			Pending:     pending,
			RecordedAt:  tx.Now(),
			Description: fmt.Sprintf("allocated %d slots in %s", total, room.Name),
		}

		next := commitAllocation(slots, targets, items, tx.Consignment(), tx.Now())
		if setErr := tx.SetRoomSlots(roomID, next); setErr != nil {
			return setErr
		}
		tx.SetPending(remaining)

		receipt = domain.AllocationReceipt{
			RoomID:      roomID,
			SlotIDs:     targets,
			Allocated:   total,
			PendingLeft: len(remaining),
		}
		return nil
	})
	if err != nil {
		return domain.AllocationReceipt{}, err
	}
	s.history.Record(entry)
	s.logger.Debug("allocation committed", "room", receipt.RoomID, "slots", receipt.Allocated)
	return receipt, nil
}

// selectItems splits the pending list into the items chosen by ids and the
// rest. Empty ids selects everything.
func selectItems(pending []domain.PendingItem, ids []string) (selected, remaining []domain.PendingItem, err error) {
	if len(ids) == 0 {
		if len(pending) == 0 {
			return nil, nil, fmt.Errorf("no pending items to allocate")
		}
		return pending, nil, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = false
	}
	for _, item := range pending {
		if _, ok := want[item.ID]; ok {
			want[item.ID] = true
			selected = append(selected, item)
		} else {
			remaining = append(remaining, item)
		}
	}
	for _, id := range ids {
		if !want[id] {
			return nil, nil, fmt.Errorf("pending item %q not loaded", id)
		}
	}
	return selected, remaining, nil
}

// RemoveSlot frees a single slot. Removing a slot that is not occupied is a
// no-op: nothing changes and no history entry is recorded.
func (s *Service) RemoveSlot(ctx context.Context, slotID string) (domain.RemovalReceipt, error) {
	ctx, finish := s.begin(ctx, "remove_slot")
	var (
		receipt  domain.RemovalReceipt
		entry    domain.HistoryEntry
		recorded bool
		err      error
	)
	defer func() { finish(receipt.RoomID, err) }()

	_, err = s.store.RunInTransaction(ctx, func(tx *Transaction) error {
		roomID, ok := tx.RoomOf(slotID)
		if !ok {
			return domain.UnknownSlotError{SlotID: slotID}
		}
		room, lookupErr := s.registry.Get(roomID)
		if lookupErr != nil {
			return lookupErr
		}
		slots, slotsErr := tx.RoomSlots(roomID)
		if slotsErr != nil {
			return slotsErr
		}
		idx := -1
		for i := range slots {
			if slots[i].ID == slotID {
				idx = i
				break
			}
		}
		receipt = domain.RemovalReceipt{RoomID: roomID}
		if !slots[idx].Occupied() {
			return nil
		}

		entry = domain.HistoryEntry{
			ID:          uuid.NewString(),
			Kind:        domain.OperationRemoval,
			RoomID:      roomID,
			Slots:       slots,
			Pending:     tx.Pending(),
			RecordedAt:  tx.Now(),
			Description: fmt.Sprintf("freed slot %s in %s", slotID, room.Name),
		}
		recorded = true

		next := cloneSlots(slots)
		next[idx].Status = domain.SlotEmpty
		next[idx].Occupant = nil
		if setErr := tx.SetRoomSlots(roomID, next); setErr != nil {
			return setErr
		}
		receipt.Freed = 1
		return nil
	})
	if err != nil {
		return domain.RemovalReceipt{}, err
	}
	if recorded {
		s.history.Record(entry)
	}
	return receipt, nil
}

// RemoveSlots frees every occupied slot among the ids in one pass, covered by
// a single history snapshot. Ids that match no slot are skipped; the matched
// ids must all belong to one room, since every mutation touches exactly one
// room's slot array.
func (s *Service) RemoveSlots(ctx context.Context, slotIDs []string) (domain.RemovalReceipt, error) {
	ctx, finish := s.begin(ctx, "remove_slots")
	var (
		receipt  domain.RemovalReceipt
		entry    domain.HistoryEntry
		recorded bool
		err      error
	)
	defer func() { finish(receipt.RoomID, err) }()

	_, err = s.store.RunInTransaction(ctx, func(tx *Transaction) error {
		roomID := ""
		matched := make(map[string]bool, len(slotIDs))
		for _, id := range slotIDs {
			owner, ok := tx.RoomOf(id)
			if !ok {
				continue
			}
			if roomID == "" {
				roomID = owner
			} else if owner != roomID {
				return fmt.Errorf("slots span multiple rooms: %s and %s", roomID, owner)
			}
			matched[id] = true
		}
		if roomID == "" {
			return nil
		}
		room, lookupErr := s.registry.Get(roomID)
		if lookupErr != nil {
			return lookupErr
		}
		slots, slotsErr := tx.RoomSlots(roomID)
		if slotsErr != nil {
			return slotsErr
		}
		receipt = domain.RemovalReceipt{RoomID: roomID}

		freed := 0
		next := cloneSlots(slots)
		for i := range next {
			if matched[next[i].ID] && next[i].Occupied() {
				next[i].Status = domain.SlotEmpty
				next[i].Occupant = nil
				freed++
			}
		}
		if freed == 0 {
			return nil
		}

		entry = domain.HistoryEntry{
			ID:          uuid.NewString(),
			Kind:        domain.OperationRemoval,
			RoomID:      roomID,
			Slots:       slots,
			Pending:     tx.Pending(),
			RecordedAt:  tx.Now(),
			Description: fmt.Sprintf("freed %d slots in %s", freed, room.Name),
		}
		recorded = true

		if setErr := tx.SetRoomSlots(roomID, next); setErr != nil {
			return setErr
		}
		receipt.Freed = freed
		return nil
	})
	if err != nil {
		return domain.RemovalReceipt{}, err
	}
	if recorded {
		s.history.Record(entry)
	}
	return receipt, nil
}

// ClearRoom frees every occupied slot of a room under one history snapshot.
// Clearing an already-empty room is an informational no-op: success with
// count 0, no snapshot, no history entry.
func (s *Service) ClearRoom(ctx context.Context, roomID string) (domain.RemovalReceipt, error) {
	ctx, finish := s.begin(ctx, "clear_room")
	var (
		receipt  domain.RemovalReceipt
		entry    domain.HistoryEntry
		recorded bool
		err      error
	)
	defer func() { finish(roomID, err) }()

	room, err := s.registry.Get(roomID)
	if err != nil {
		return domain.RemovalReceipt{}, err
	}

	_, err = s.store.RunInTransaction(ctx, func(tx *Transaction) error {
		slots, slotsErr := tx.RoomSlots(roomID)
		if slotsErr != nil {
			return slotsErr
		}
		occupied := len(slots) - CountEmpty(slots)
		receipt = domain.RemovalReceipt{RoomID: roomID}
		if occupied == 0 {
			receipt.AlreadyEmpty = true
			return nil
		}

		entry = domain.HistoryEntry{
			ID:          uuid.NewString(),
			Kind:        domain.OperationRemoval,
			RoomID:      roomID,
			Slots:       slots,
			Pending:     tx.Pending(),
			RecordedAt:  tx.Now(),
			Description: fmt.Sprintf("cleared %d slots in %s", occupied, room.Name),
		}
		recorded = true

		next := cloneSlots(slots)
		for i := range next {
			next[i].Status = domain.SlotEmpty
			next[i].Occupant = nil
		}
		if setErr := tx.SetRoomSlots(roomID, next); setErr != nil {
			return setErr
		}
		receipt.Freed = occupied
		return nil
	})
	if err != nil {
		return domain.RemovalReceipt{}, err
	}
	if recorded {
		s.history.Record(entry)
	}
	return receipt, nil
}

// Undo pops the latest history entry and wholesale-restores the referenced
// room's slot array and the pending list from the snapshot. An empty stack is
// the informational "nothing to undo", not an error.
func (s *Service) Undo(ctx context.Context) (domain.UndoReceipt, error) {
	ctx, finish := s.begin(ctx, "undo")
	var (
		receipt domain.UndoReceipt
		err     error
	)
	defer func() { finish(receipt.RoomID, err) }()

	entry, ok := s.history.Pop()
	if !ok {
		return domain.UndoReceipt{Undone: false}, nil
	}

	_, err = s.store.RunInTransaction(ctx, func(tx *Transaction) error {
		if setErr := tx.SetRoomSlots(entry.RoomID, entry.Slots); setErr != nil {
			return setErr
		}
		tx.SetPending(entry.Pending)
		return nil
	})
	if err != nil {
		s.history.Record(entry)
		return domain.UndoReceipt{}, err
	}
	receipt = domain.UndoReceipt{
		Undone:      true,
		Kind:        entry.Kind,
		RoomID:      entry.RoomID,
		Description: entry.Description,
	}
	return receipt, nil
}

// Search returns the sorted ids of occupied slots in a room matching the
// query. A blank query yields an empty result.
func (s *Service) Search(ctx context.Context, roomID, query string) ([]string, error) {
	ctx, finish := s.begin(ctx, "search")
	var (
		ids []string
		err error
	)
	defer func() { finish(roomID, err) }()

	if _, err = s.registry.Get(roomID); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(view TransactionView) error {
		for id := range MatchSlots(query, view.RoomSlots(roomID)) {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}
