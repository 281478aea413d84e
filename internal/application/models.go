package application

import (
	"time"

	"github.com/example/auction-scheduler/internal/persistence"
	"github.com/example/auction-scheduler/internal/scheduler"
)

// Role identifies the kind of actor issuing a request.
type Role string

const (
	RoleExecutive Role = "EXECUTIVE"
	RoleOwner     Role = "OWNER"
	RoleSystem    Role = "SYSTEM"
)

// Principal identifies the authenticated actor for authorization decisions.
type Principal struct {
	UserID string
	Role   Role
}

// Availability statuses accepted on calendar entries.
const (
	StatusAvailable = string(persistence.DayAvailable)
	StatusBlocked   = string(persistence.DayBlocked)
)

// DayEntry is one calendar day with its availability status.
type DayEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// Calendar is the availability view for one executive.
type Calendar struct {
	ExecutiveID  string     `json:"executiveId"`
	Availability []DayEntry `json:"availability"`
	Timezone     string     `json:"timezone"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Slot is a scheduled engagement between an executive and an owner.
type Slot struct {
	ID                   string    `json:"id"`
	SlotID               string    `json:"slotId"`
	ExecutiveID          string    `json:"executiveId"`
	OwnerID              string    `json:"ownerId"`
	ContractID           string    `json:"contractId"`
	StartDate            string    `json:"startDate"`
	EndDate              string    `json:"endDate"`
	Status               string    `json:"status"`
	MeetingLink          string    `json:"meetingLink"`
	ContractDeadlineDate *string   `json:"contractDeadlineDate,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Notification is one message delivered to a user.
type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	ReferenceID string    `json:"referenceId"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CalendarView bundles the availability calendar with the slots the caller is
// allowed to see.
type CalendarView struct {
	Calendar Calendar `json:"calendar"`
	Slots    []Slot   `json:"slots"`
}

// SetAvailabilityParams carries a replace-style availability update.
type SetAvailabilityParams struct {
	Principal   Principal
	ExecutiveID string
	Entries     []DayEntry
}

// ScheduleAfterAuctionParams carries an auction outcome to turn into a slot.
type ScheduleAfterAuctionParams struct {
	Principal            Principal
	SlotID               string
	ExecutiveID          string
	OwnerID              string
	ContractID           string
	AuctionEndDate       string
	TierOffsetDays       int
	TierDurationDays     int
	ContractDeadlineDate string
}

// CancelBeforeStartParams carries a pre-start cancellation request.
type CancelBeforeStartParams struct {
	Principal Principal
	SlotID    string
	NowDate   string
}

// GetCalendarViewParams carries a calendar read request.
type GetCalendarViewParams struct {
	Principal   Principal
	ExecutiveID string
}

// PushNotificationInput is one notification to enqueue for a user.
type PushNotificationInput struct {
	Type        string `json:"type"`
	ReferenceID string `json:"referenceId"`
	Message     string `json:"message"`
}

// PushOrReadParams pushes notifications to a user and/or marks some as read,
// then returns the user's current inbox.
type PushOrReadParams struct {
	Principal     Principal
	UserID        string
	Notifications []PushNotificationInput
	MarkReadIDs   []string
}

// SweepResult summarizes one periodic sweep tick.
type SweepResult struct {
	CreatedNotifications int
}

func calendarFromPersistence(c persistence.Calendar) Calendar {
	entries := make([]DayEntry, 0, len(c.Availability))
	for _, entry := range c.Availability {
		entries = append(entries, DayEntry{Date: entry.Date, Status: string(entry.Status)})
	}
	return Calendar{
		ExecutiveID:  c.ExecutiveID,
		Availability: entries,
		Timezone:     c.Timezone,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func slotFromPersistence(s persistence.Slot) Slot {
	return Slot{
		ID:                   s.ID,
		SlotID:               s.SlotID,
		ExecutiveID:          s.ExecutiveID,
		OwnerID:              s.OwnerID,
		ContractID:           s.ContractID,
		StartDate:            s.StartDate,
		EndDate:              s.EndDate,
		Status:               string(s.Status),
		MeetingLink:          s.MeetingLink,
		ContractDeadlineDate: s.ContractDeadlineDate,
		CreatedAt:            s.CreatedAt,
	}
}

func slotsFromPersistence(slots []persistence.Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotFromPersistence(s))
	}
	return out
}

func notificationFromPersistence(n persistence.Notification) Notification {
	return Notification{
		ID:          n.ID,
		UserID:      n.UserID,
		Type:        string(n.Type),
		ReferenceID: n.ReferenceID,
		Message:     n.Message,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

func notificationsFromPersistence(list []persistence.Notification) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		out = append(out, notificationFromPersistence(n))
	}
	return out
}

func entriesToScheduler(entries []DayEntry) []scheduler.DayEntry {
	out := make([]scheduler.DayEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, scheduler.DayEntry{Date: entry.Date, Status: scheduler.DayStatus(entry.Status)})
	}
	return out
}

func entriesToPersistence(entries []scheduler.DayEntry) []persistence.DayEntry {
	out := make([]persistence.DayEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, persistence.DayEntry{Date: entry.Date, Status: persistence.DayStatus(entry.Status)})
	}
	return out
}

func entriesFromPersistence(entries []persistence.DayEntry) []scheduler.DayEntry {
	out := make([]scheduler.DayEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, scheduler.DayEntry{Date: entry.Date, Status: scheduler.DayStatus(entry.Status)})
	}
	return out
}
