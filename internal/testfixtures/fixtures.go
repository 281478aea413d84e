// Package testfixtures provides deterministic clocks, identifier generators,
// and domain fixtures shared across the scheduler's test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/auction-scheduler/internal/dates"
	"github.com/example/auction-scheduler/internal/persistence"
)

var slotCounter uint64

// clearingTime is noon UTC on the canonical auction end day.
var clearingTime = time.Date(2026, time.February, 16, 12, 0, 0, 0, time.UTC)

// ClearingTime returns the instant the canonical fixture auction clears. All
// fixture timestamps derive from it.
func ClearingTime() time.Time {
	return clearingTime
}

// SlotOption configures the generated slot fixture.
type SlotOption func(*persistence.Slot)

// NewSlotFixture returns a deterministic scheduled slot spanning 2026-02-18
// through 2026-02-20 with a 2026-02-21 contract deadline.
func NewSlotFixture(opts ...SlotOption) persistence.Slot {
	idx := atomic.AddUint64(&slotCounter, 1)
	deadline := "2026-02-21"
	slot := persistence.Slot{
		ID:                   fmt.Sprintf("row-%03d", idx),
		SlotID:               fmt.Sprintf("slot-%03d", idx),
		ExecutiveID:          "exec-1",
		OwnerID:              "owner-1",
		ContractID:           fmt.Sprintf("contract-%03d", idx),
		StartDate:            "2026-02-18",
		EndDate:              "2026-02-20",
		Status:               persistence.SlotScheduled,
		MeetingLink:          fmt.Sprintf("https://meet.google.com/fix-ture-%05d", idx),
		ContractDeadlineDate: &deadline,
		CreatedAt:            clearingTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&slot)
	}
	return slot
}

// WithSlotID overrides the generated external slot identifier.
func WithSlotID(slotID string) SlotOption {
	return func(s *persistence.Slot) {
		s.SlotID = slotID
	}
}

// WithSlotDates overrides the occupied date range.
func WithSlotDates(start, end string) SlotOption {
	return func(s *persistence.Slot) {
		s.StartDate = start
		s.EndDate = end
	}
}

// WithSlotStatus overrides the lifecycle status.
func WithSlotStatus(status persistence.SlotStatus) SlotOption {
	return func(s *persistence.Slot) {
		s.Status = status
	}
}

// WithSlotDeadline overrides the contract deadline. An empty date clears it.
func WithSlotDeadline(date string) SlotOption {
	return func(s *persistence.Slot) {
		if date == "" {
			s.ContractDeadlineDate = nil
			return
		}
		s.ContractDeadlineDate = &date
	}
}

// NewCalendarFixture returns a calendar with the given days AVAILABLE.
func NewCalendarFixture(executiveID string, availableDates ...string) persistence.Calendar {
	entries := make([]persistence.DayEntry, 0, len(availableDates))
	for _, date := range availableDates {
		entries = append(entries, persistence.DayEntry{Date: date, Status: persistence.DayAvailable})
	}
	return persistence.Calendar{
		ExecutiveID:  executiveID,
		Availability: entries,
		Timezone:     dates.OperatingTimezone,
		CreatedAt:    clearingTime,
		UpdatedAt:    clearingTime,
	}
}
