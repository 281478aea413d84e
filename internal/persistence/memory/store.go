// Package memory implements the persistence contracts over process-local
// maps. Each unit of work runs against a deep-copied snapshot of committed
// state; the snapshot replaces the committed state only when the work
// succeeds, so a failed unit leaves everything exactly as before.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/auction-scheduler/internal/persistence"
)

// TxManager is the snapshot-on-entry, swap-on-commit transactional executor.
// A mutex serializes units of work, which also serializes sweep ticks.
type TxManager struct {
	mu    sync.Mutex
	state *state
	idGen func() string
	now   func() time.Time
}

// Option customises a TxManager.
type Option func(*TxManager)

// WithIDGenerator overrides the generated-id source. Tests use this for
// deterministic ids.
func WithIDGenerator(idGen func() string) Option {
	return func(m *TxManager) {
		if idGen != nil {
			m.idGen = idGen
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *TxManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewTxManager returns an empty in-memory transactional store.
func NewTxManager(opts ...Option) *TxManager {
	m := &TxManager{
		state: newState(),
		idGen: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunInTransaction executes work against a private snapshot and swaps it in
// on success.
func (m *TxManager) RunInTransaction(ctx context.Context, work persistence.UnitOfWork) error {
	if work == nil {
		return fmt.Errorf("memory: unit of work is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	repos := persistence.Repositories{
		Calendars:     &calendarRepository{state: snapshot, now: m.now},
		Slots:         &slotRepository{state: snapshot, idGen: m.idGen, now: m.now},
		Notifications: &notificationRepository{state: snapshot, idGen: m.idGen, now: m.now},
	}

	if err := work(ctx, repos); err != nil {
		return err
	}

	m.state = snapshot
	return nil
}

// state is the committed dataset. seq orders records created with identical
// timestamps so listings stay deterministic under a frozen test clock.
type state struct {
	calendars     map[string]persistence.Calendar
	slots         map[string]persistence.Slot
	notifications map[string]persistence.Notification
	slotSeq       map[string]uint64
	notifSeq      map[string]uint64
	seq           uint64
}

func newState() *state {
	return &state{
		calendars:     make(map[string]persistence.Calendar),
		slots:         make(map[string]persistence.Slot),
		notifications: make(map[string]persistence.Notification),
		slotSeq:       make(map[string]uint64),
		notifSeq:      make(map[string]uint64),
	}
}

func (s *state) clone() *state {
	next := &state{
		calendars:     make(map[string]persistence.Calendar, len(s.calendars)),
		slots:         make(map[string]persistence.Slot, len(s.slots)),
		notifications: make(map[string]persistence.Notification, len(s.notifications)),
		slotSeq:       make(map[string]uint64, len(s.slotSeq)),
		notifSeq:      make(map[string]uint64, len(s.notifSeq)),
		seq:           s.seq,
	}
	for id, calendar := range s.calendars {
		next.calendars[id] = cloneCalendar(calendar)
	}
	for id, slot := range s.slots {
		next.slots[id] = cloneSlot(slot)
	}
	for id, notification := range s.notifications {
		next.notifications[id] = notification
	}
	for id, seq := range s.slotSeq {
		next.slotSeq[id] = seq
	}
	for id, seq := range s.notifSeq {
		next.notifSeq[id] = seq
	}
	return next
}

func (s *state) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// --- CalendarRepository implementation ---

type calendarRepository struct {
	state *state
	now   func() time.Time
}

func (r *calendarRepository) GetByExecutiveID(ctx context.Context, executiveID string) (persistence.Calendar, error) {
	calendar, ok := r.state.calendars[executiveID]
	if !ok {
		return persistence.Calendar{}, persistence.ErrNotFound
	}
	return cloneCalendar(calendar), nil
}

func (r *calendarRepository) UpsertCalendar(ctx context.Context, calendar persistence.Calendar) (persistence.Calendar, error) {
	now := r.now()
	stored := cloneCalendar(calendar)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if current, ok := r.state.calendars[calendar.ExecutiveID]; ok {
		stored.CreatedAt = current.CreatedAt
	}
	r.state.calendars[calendar.ExecutiveID] = stored
	return cloneCalendar(stored), nil
}

// --- SlotRepository implementation ---

type slotRepository struct {
	state *state
	idGen func() string
	now   func() time.Time
}

func (r *slotRepository) CreateSlot(ctx context.Context, slot persistence.Slot) (persistence.Slot, error) {
	for _, existing := range r.state.slots {
		if existing.SlotID == slot.SlotID {
			return persistence.Slot{}, fmt.Errorf("%w: slot %s", persistence.ErrDuplicate, slot.SlotID)
		}
	}

	stored := cloneSlot(slot)
	stored.ID = r.idGen()
	stored.CreatedAt = r.now()
	r.state.slots[stored.ID] = stored
	r.state.slotSeq[stored.ID] = r.state.nextSeq()
	return cloneSlot(stored), nil
}

func (r *slotRepository) FindBySlotID(ctx context.Context, slotID string) (persistence.Slot, error) {
	for _, slot := range r.state.slots {
		if slot.SlotID == slotID {
			return cloneSlot(slot), nil
		}
	}
	return persistence.Slot{}, persistence.ErrNotFound
}

func (r *slotRepository) ListByExecutiveID(ctx context.Context, executiveID string) ([]persistence.Slot, error) {
	return r.list(func(slot persistence.Slot) bool { return slot.ExecutiveID == executiveID }), nil
}

func (r *slotRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]persistence.Slot, error) {
	return r.list(func(slot persistence.Slot) bool { return slot.OwnerID == ownerID }), nil
}

func (r *slotRepository) ListAll(ctx context.Context) ([]persistence.Slot, error) {
	return r.list(func(persistence.Slot) bool { return true }), nil
}

func (r *slotRepository) UpdateStatus(ctx context.Context, slotID string, status persistence.SlotStatus) (persistence.Slot, error) {
	for id, slot := range r.state.slots {
		if slot.SlotID == slotID {
			slot.Status = status
			r.state.slots[id] = slot
			return cloneSlot(slot), nil
		}
	}
	return persistence.Slot{}, persistence.ErrNotFound
}

func (r *slotRepository) list(match func(persistence.Slot) bool) []persistence.Slot {
	slots := make([]persistence.Slot, 0)
	for _, slot := range r.state.slots {
		if match(slot) {
			slots = append(slots, cloneSlot(slot))
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].CreatedAt.Equal(slots[j].CreatedAt) {
			return r.state.slotSeq[slots[i].ID] < r.state.slotSeq[slots[j].ID]
		}
		return slots[i].CreatedAt.Before(slots[j].CreatedAt)
	})
	return slots
}

// --- NotificationRepository implementation ---

type notificationRepository struct {
	state *state
	idGen func() string
	now   func() time.Time
}

func (r *notificationRepository) CreateMany(ctx context.Context, notifications []persistence.NewNotification) ([]persistence.Notification, error) {
	createdAt := r.now()
	created := make([]persistence.Notification, 0, len(notifications))
	for _, item := range notifications {
		entry := persistence.Notification{
			ID:          r.idGen(),
			UserID:      item.UserID,
			Type:        item.Type,
			ReferenceID: item.ReferenceID,
			Message:     item.Message,
			Read:        false,
			CreatedAt:   createdAt,
		}
		r.state.notifications[entry.ID] = entry
		r.state.notifSeq[entry.ID] = r.state.nextSeq()
		created = append(created, entry)
	}
	return created, nil
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string) ([]persistence.Notification, error) {
	notifications := make([]persistence.Notification, 0)
	for _, notification := range r.state.notifications {
		if notification.UserID == userID {
			notifications = append(notifications, notification)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return r.state.notifSeq[notifications[i].ID] > r.state.notifSeq[notifications[j].ID]
		}
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *notificationRepository) ListAll(ctx context.Context) ([]persistence.Notification, error) {
	notifications := make([]persistence.Notification, 0, len(r.state.notifications))
	for _, notification := range r.state.notifications {
		notifications = append(notifications, notification)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return r.state.notifSeq[notifications[i].ID] < r.state.notifSeq[notifications[j].ID]
	})
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		notification, ok := r.state.notifications[id]
		if !ok || notification.UserID != userID || notification.Read {
			continue
		}
		notification.Read = true
		r.state.notifications[id] = notification
		count++
	}
	return count, nil
}

func (r *notificationRepository) ExistsBySignature(ctx context.Context, signature persistence.NotificationSignature) (bool, error) {
	for _, notification := range r.state.notifications {
		if notification.Signature() == signature {
			return true, nil
		}
	}
	return false, nil
}

// --- Clone helpers ---

func cloneCalendar(calendar persistence.Calendar) persistence.Calendar {
	availability := make([]persistence.DayEntry, len(calendar.Availability))
	copy(availability, calendar.Availability)
	calendar.Availability = availability
	return calendar
}

func cloneSlot(slot persistence.Slot) persistence.Slot {
	if slot.ContractDeadlineDate != nil {
		deadline := *slot.ContractDeadlineDate
		slot.ContractDeadlineDate = &deadline
	}
	return slot
}
