package persistence

import "time"

// DayStatus marks a calendar day as bookable or taken.
type DayStatus string

const (
	// DayAvailable marks a day the executive accepts bookings on.
	DayAvailable DayStatus = "AVAILABLE"
	// DayBlocked marks a day taken by a slot or declared unavailable.
	DayBlocked DayStatus = "BLOCKED"
)

// DayEntry is one declared day in an executive's availability calendar.
type DayEntry struct {
	Date   string
	Status DayStatus
}

// Calendar stores an executive's per-day availability. At most one entry
// exists per date and entries are kept sorted ascending by date.
type Calendar struct {
	ExecutiveID  string
	Availability []DayEntry
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SlotStatus tracks the lifecycle of a scheduled slot. Transitions are
// monotonic: SCHEDULED -> IN_PROGRESS -> {COMPLETED | CANCELED}, with
// CANCELED also reachable directly from SCHEDULED.
type SlotStatus string

const (
	SlotScheduled  SlotStatus = "SCHEDULED"
	SlotInProgress SlotStatus = "IN_PROGRESS"
	SlotCompleted  SlotStatus = "COMPLETED"
	SlotCanceled   SlotStatus = "CANCELED"
)

// Slot is a contiguous whole-day date range allocated to one executive/owner
// pair for a contract. ID is generated by the store; SlotID is the unique
// human-facing identifier supplied by the auction side.
type Slot struct {
	ID                   string
	SlotID               string
	ExecutiveID          string
	OwnerID              string
	ContractID           string
	StartDate            string
	EndDate              string
	Status               SlotStatus
	MeetingLink          string
	ContractDeadlineDate *string
	CreatedAt            time.Time
}

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationDeadlineAlert   NotificationType = "DEADLINE_ALERT"
	NotificationMeetingReminder NotificationType = "MEETING_REMINDER"
	NotificationAuctionCleared  NotificationType = "AUCTION_CLEARED"
)

// Notification is a message delivered to a user, mutated only by marking it
// read.
type Notification struct {
	ID          string
	UserID      string
	Type        NotificationType
	ReferenceID string
	Message     string
	Read        bool
	CreatedAt   time.Time
}

// NewNotification carries the caller-controlled notification fields; the
// store assigns id, read flag, and creation timestamp.
type NewNotification struct {
	UserID      string
	Type        NotificationType
	ReferenceID string
	Message     string
}

// NotificationSignature is the dedup key the sweep engine checks before
// creating a reminder.
type NotificationSignature struct {
	UserID      string
	Type        NotificationType
	ReferenceID string
	Message     string
}

// Signature extracts the dedup signature of a stored notification.
func (n Notification) Signature() NotificationSignature {
	return NotificationSignature{
		UserID:      n.UserID,
		Type:        n.Type,
		ReferenceID: n.ReferenceID,
		Message:     n.Message,
	}
}
