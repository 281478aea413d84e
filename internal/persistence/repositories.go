package persistence

import "context"

// CalendarRepository reads and writes executive availability calendars.
type CalendarRepository interface {
	// GetByExecutiveID returns ErrNotFound when the executive has no calendar yet.
	GetByExecutiveID(ctx context.Context, executiveID string) (Calendar, error)
	// UpsertCalendar fully replaces the stored availability list, preserving
	// the original creation timestamp.
	UpsertCalendar(ctx context.Context, calendar Calendar) (Calendar, error)
}

// SlotRepository stores scheduled slots. Slots are never deleted.
type SlotRepository interface {
	// CreateSlot persists a new slot, assigning its generated id and creation
	// timestamp. Returns ErrDuplicate when the SlotID is already taken.
	CreateSlot(ctx context.Context, slot Slot) (Slot, error)
	// FindBySlotID returns ErrNotFound when no slot carries the external id.
	FindBySlotID(ctx context.Context, slotID string) (Slot, error)
	ListByExecutiveID(ctx context.Context, executiveID string) ([]Slot, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]Slot, error)
	ListAll(ctx context.Context) ([]Slot, error)
	// UpdateStatus sets the status of the slot identified by its external id.
	UpdateStatus(ctx context.Context, slotID string, status SlotStatus) (Slot, error)
}

// NotificationRepository stores notifications. Notifications are never
// deleted; the only mutation is marking them read.
type NotificationRepository interface {
	CreateMany(ctx context.Context, notifications []NewNotification) ([]Notification, error)
	// ListByUserID returns the user's notifications newest first.
	ListByUserID(ctx context.Context, userID string) ([]Notification, error)
	ListAll(ctx context.Context) ([]Notification, error)
	// MarkRead flags the given ids as read when they belong to the user and
	// are currently unread, returning the number updated. Non-matching ids
	// are ignored.
	MarkRead(ctx context.Context, userID string, ids []string) (int, error)
	ExistsBySignature(ctx context.Context, signature NotificationSignature) (bool, error)
}

// Repositories bundles the per-entity repositories bound to one transactional
// unit of work.
type Repositories struct {
	Calendars     CalendarRepository
	Slots         SlotRepository
	Notifications NotificationRepository
}

// UnitOfWork is the body of one transaction. Returning an error discards
// every write issued through the supplied repositories.
type UnitOfWork func(ctx context.Context, repos Repositories) error

// TxManager executes units of work with all-or-nothing visibility: either
// every write commits together or the prior committed state is left intact.
type TxManager interface {
	RunInTransaction(ctx context.Context, work UnitOfWork) error
}
