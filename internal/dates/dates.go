// Package dates implements day-granular date arithmetic for the scheduler.
//
// Every public operation works on day strings in the YYYY-MM-DD format and
// performs its calendar math in UTC. Conversions between day strings and
// instants go through the fixed operating timezone so the rest of the engine
// never touches timezone handling directly.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// OperatingTimezone is the single timezone the whole system schedules in.
const OperatingTimezone = "America/Sao_Paulo"

// DefaultReminderWindow bounds the interval during which a reminder target is
// considered due. It must exceed the maximum gap between sweep ticks so no
// reminder is skipped.
const DefaultReminderWindow = time.Hour

const dayLayout = "2006-01-02"

// operatingLocation is the fixed UTC-3 offset of the operating timezone. The
// offset is modeled as a fixed zone rather than a tzdata lookup: local
// midnight is always 03:00Z.
var operatingLocation = time.FixedZone("-03", -3*60*60)

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	// ErrInvalidFormat is returned when a day string does not match YYYY-MM-DD.
	ErrInvalidFormat = errors.New("dates: invalid date format, use YYYY-MM-DD")
	// ErrInvalidRange is returned when a range start is after its end.
	ErrInvalidRange = errors.New("dates: start date must be <= end date")
)

// ValidateDayOnly checks that value matches the YYYY-MM-DD digit pattern.
// Calendar validity is deliberately not checked: a day like 2026-02-30 passes
// and is normalized by the arithmetic functions.
func ValidateDayOnly(value string) error {
	if !dayPattern.MatchString(value) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	return nil
}

// parseDay converts a day string to a UTC instant at midnight. Out-of-range
// components are normalized by time.Date, matching the format-only validation
// contract.
func parseDay(value string) (time.Time, error) {
	if err := ValidateDayOnly(value); err != nil {
		return time.Time{}, err
	}

	year, _ := strconv.Atoi(value[0:4])
	month, _ := strconv.Atoi(value[5:7])
	day, _ := strconv.Atoi(value[8:10])

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// AddDays returns the day string days after date. days may be negative.
func AddDays(date string, days int) (string, error) {
	parsed, err := parseDay(date)
	if err != nil {
		return "", err
	}
	return parsed.AddDate(0, 0, days).Format(dayLayout), nil
}

// EnumerateDates returns every day string from start to end inclusive.
func EnumerateDates(start, end string) ([]string, error) {
	if err := ValidateDayOnly(start); err != nil {
		return nil, err
	}
	if err := ValidateDayOnly(end); err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}

	result := make([]string, 0, 1)
	cursor := start
	for cursor <= end {
		result = append(result, cursor)
		next, err := AddDays(cursor, 1)
		if err != nil {
			return nil, err
		}
		cursor = next
	}
	return result, nil
}

// Overlaps reports whether the closed day intervals [aStart, aEnd] and
// [bStart, bEnd] intersect. Day strings compare correctly as plain strings.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return !(aEnd < bStart || bEnd < aStart)
}

// StartOfOperatingDay maps a day string to the UTC instant of local midnight
// in the operating timezone.
func StartOfOperatingDay(date string) (time.Time, error) {
	parsed, err := parseDay(date)
	if err != nil {
		return time.Time{}, err
	}
	local := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, operatingLocation)
	return local.UTC(), nil
}

// InWindow reports whether now falls inside the half-open interval
// [target, target+window). A reminder swept at a coarser tick interval than
// the window fires exactly once.
func InWindow(now, target time.Time, window time.Duration) bool {
	delta := now.Sub(target)
	return delta >= 0 && delta < window
}
