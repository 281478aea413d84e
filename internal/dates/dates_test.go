package dates

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestValidateDayOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "2026-02-16", wantErr: false},
		{name: "missing day", value: "2026-02", wantErr: true},
		{name: "slashes", value: "2026/02/16", wantErr: true},
		{name: "trailing garbage", value: "2026-02-16T00:00:00Z", wantErr: true},
		{name: "letters", value: "yyyy-mm-dd", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		// Known boundary: format-only validation accepts calendar-invalid days.
		{name: "february 30th accepted", value: "2026-02-30", wantErr: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateDayOnly(tc.value)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("expected ErrInvalidFormat for %q, got %v", tc.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.value, err)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		date string
		days int
		want string
	}{
		{date: "2026-02-16", days: 2, want: "2026-02-18"},
		{date: "2026-02-18", days: 2, want: "2026-02-20"},
		{date: "2026-02-28", days: 1, want: "2026-03-01"},
		{date: "2026-01-01", days: -1, want: "2025-12-31"},
		{date: "2026-12-31", days: 1, want: "2027-01-01"},
		{date: "2026-02-16", days: 0, want: "2026-02-16"},
		// Calendar-invalid input normalizes instead of failing.
		{date: "2026-02-30", days: 0, want: "2026-03-02"},
	}

	for _, tc := range cases {
		got, err := AddDays(tc.date, tc.days)
		if err != nil {
			t.Fatalf("AddDays(%s, %d): %v", tc.date, tc.days, err)
		}
		if got != tc.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tc.date, tc.days, got, tc.want)
		}
	}

	if _, err := AddDays("16-02-2026", 1); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestEnumerateDates(t *testing.T) {
	t.Parallel()

	got, err := EnumerateDates("2026-02-18", "2026-02-20")
	if err != nil {
		t.Fatalf("EnumerateDates: %v", err)
	}
	want := []string{"2026-02-18", "2026-02-19", "2026-02-20"}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("date %d = %s, want %s", i, got[i], want[i])
		}
	}

	if _, err := EnumerateDates("2026-02-20", "2026-02-18"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestEnumerateDatesRoundTrip(t *testing.T) {
	t.Parallel()

	// enumerateDates(addDays(d,0), addDays(d,n)) has length n+1 for n >= 0.
	base := "2026-02-16"
	for n := 0; n <= 40; n++ {
		start, err := AddDays(base, 0)
		if err != nil {
			t.Fatalf("AddDays: %v", err)
		}
		end, err := AddDays(base, n)
		if err != nil {
			t.Fatalf("AddDays: %v", err)
		}
		got, err := EnumerateDates(start, end)
		if err != nil {
			t.Fatalf("EnumerateDates(%s, %s): %v", start, end, err)
		}
		if len(got) != n+1 {
			t.Fatalf("n=%d: expected %d dates, got %d", n, n+1, len(got))
		}
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{name: "identical", aStart: "2026-02-18", aEnd: "2026-02-20", bStart: "2026-02-18", bEnd: "2026-02-20", want: true},
		{name: "touching end day", aStart: "2026-02-18", aEnd: "2026-02-20", bStart: "2026-02-20", bEnd: "2026-02-22", want: true},
		{name: "contained", aStart: "2026-02-18", aEnd: "2026-02-25", bStart: "2026-02-19", bEnd: "2026-02-20", want: true},
		{name: "disjoint before", aStart: "2026-02-10", aEnd: "2026-02-12", bStart: "2026-02-18", bEnd: "2026-02-20", want: false},
		{name: "adjacent days", aStart: "2026-02-18", aEnd: "2026-02-19", bStart: "2026-02-20", bEnd: "2026-02-21", want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStartOfOperatingDay(t *testing.T) {
	t.Parallel()

	got, err := StartOfOperatingDay("2026-02-21")
	if err != nil {
		t.Fatalf("StartOfOperatingDay: %v", err)
	}
	want := time.Date(2026, 2, 21, 3, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfOperatingDay = %s, want %s", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC instant, got %s", got.Location())
	}

	if _, err := StartOfOperatingDay("not-a-date"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestInWindow(t *testing.T) {
	t.Parallel()

	target := time.Date(2026, 2, 21, 3, 0, 0, 0, time.UTC)

	cases := []struct {
		offset time.Duration
		want   bool
	}{
		{offset: -time.Second, want: false},
		{offset: 0, want: true},
		{offset: 30 * time.Minute, want: true},
		{offset: time.Hour - time.Second, want: true},
		{offset: time.Hour, want: false},
		{offset: 2 * time.Hour, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(fmt.Sprintf("offset=%s", tc.offset), func(t *testing.T) {
			t.Parallel()
			now := target.Add(tc.offset)
			if got := InWindow(now, target, DefaultReminderWindow); got != tc.want {
				t.Errorf("InWindow(target%+s) = %v, want %v", tc.offset, got, tc.want)
			}
		})
	}
}
