// Package scheduler holds the pure calendar derivation logic: which days an
// executive's slots occupy, whether a candidate range collides with them, and
// how the AVAILABLE/BLOCKED partition is rebuilt from slot state.
package scheduler

import (
	"sort"

	"github.com/example/auction-scheduler/internal/dates"
)

// DayStatus marks a calendar day as bookable or taken.
type DayStatus string

const (
	// DayAvailable marks a day the executive accepts bookings on.
	DayAvailable DayStatus = "AVAILABLE"
	// DayBlocked marks a day already taken by a slot or declared unavailable.
	DayBlocked DayStatus = "BLOCKED"
)

// DayEntry is one day of an executive's availability calendar.
type DayEntry struct {
	Date   string
	Status DayStatus
}

// SlotRange is the day span a scheduled slot occupies.
type SlotRange struct {
	SlotID    string
	StartDate string
	EndDate   string
}

// MergeAvailabilityInput resolves duplicate dates in caller input, last
// occurrence winning, and returns the entries sorted by date.
func MergeAvailabilityInput(entries []DayEntry) []DayEntry {
	byDate := make(map[string]DayStatus, len(entries))
	for _, entry := range entries {
		byDate[entry.Date] = entry.Status
	}

	merged := make([]DayEntry, 0, len(byDate))
	for date, status := range byDate {
		merged = append(merged, DayEntry{Date: date, Status: status})
	}
	sortEntries(merged)
	return merged
}

// OccupiedDates enumerates every day covered by the given slot ranges.
func OccupiedDates(ranges []SlotRange) (map[string]struct{}, error) {
	occupied := make(map[string]struct{})
	for _, r := range ranges {
		days, err := dates.EnumerateDates(r.StartDate, r.EndDate)
		if err != nil {
			return nil, err
		}
		for _, day := range days {
			occupied[day] = struct{}{}
		}
	}
	return occupied, nil
}

// FindOverlap returns the first range intersecting [startDate, endDate].
func FindOverlap(ranges []SlotRange, startDate, endDate string) (SlotRange, bool) {
	for _, r := range ranges {
		if dates.Overlaps(startDate, endDate, r.StartDate, r.EndDate) {
			return r, true
		}
	}
	return SlotRange{}, false
}

// DeriveOnSchedule rebuilds the availability partition after a slot is
// allocated: previously BLOCKED dates plus the slot's dates become BLOCKED,
// previously AVAILABLE dates outside that set stay AVAILABLE. The result
// fully replaces the prior calendar.
func DeriveOnSchedule(current []DayEntry, slotDates []string) []DayEntry {
	blocked := make(map[string]struct{}, len(slotDates))
	for _, entry := range current {
		if entry.Status == DayBlocked {
			blocked[entry.Date] = struct{}{}
		}
	}
	for _, date := range slotDates {
		blocked[date] = struct{}{}
	}

	derived := make([]DayEntry, 0, len(current)+len(slotDates))
	for _, entry := range current {
		if entry.Status == DayAvailable {
			if _, taken := blocked[entry.Date]; !taken {
				derived = append(derived, DayEntry{Date: entry.Date, Status: DayAvailable})
			}
		}
	}
	for date := range blocked {
		derived = append(derived, DayEntry{Date: date, Status: DayBlocked})
	}
	sortEntries(derived)
	return derived
}

// DeriveOnCancel repartitions every known calendar date after a cancellation:
// a date is BLOCKED iff some still-active slot occupies it, and AVAILABLE
// otherwise. Cancellation frees every date the remaining slots do not claim.
func DeriveOnCancel(current []DayEntry, stillOccupied map[string]struct{}) []DayEntry {
	derived := make([]DayEntry, 0, len(current))
	for _, entry := range current {
		status := DayAvailable
		if _, taken := stillOccupied[entry.Date]; taken {
			status = DayBlocked
		}
		derived = append(derived, DayEntry{Date: entry.Date, Status: status})
	}
	sortEntries(derived)
	return derived
}

func sortEntries(entries []DayEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}
