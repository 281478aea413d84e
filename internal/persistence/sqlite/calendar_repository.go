package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/auction-scheduler/internal/persistence"
)

// CalendarRepository implements persistence.CalendarRepository on SQLite.
type CalendarRepository struct {
	db  dbtx
	now func() time.Time
}

// NewCalendarRepository binds a calendar repository to a database handle or
// transaction.
func NewCalendarRepository(db dbtx, now func() time.Time) *CalendarRepository {
	if now == nil {
		now = time.Now
	}
	return &CalendarRepository{db: db, now: now}
}

func (r *CalendarRepository) GetByExecutiveID(ctx context.Context, executiveID string) (persistence.Calendar, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT executive_id, availability, timezone, created_at, updated_at
		FROM calendars WHERE executive_id = ?`, executiveID)
	return scanCalendar(row)
}

func (r *CalendarRepository) UpsertCalendar(ctx context.Context, calendar persistence.Calendar) (persistence.Calendar, error) {
	availability, err := json.Marshal(calendar.Availability)
	if err != nil {
		return persistence.Calendar{}, fmt.Errorf("sqlite: encode availability: %w", err)
	}

	now := r.now().UTC().Format(time.RFC3339)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO calendars (executive_id, availability, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(executive_id) DO UPDATE SET
			availability = excluded.availability,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`,
		calendar.ExecutiveID, string(availability), calendar.Timezone, now, now)
	if err != nil {
		return persistence.Calendar{}, mapError(err)
	}

	return r.GetByExecutiveID(ctx, calendar.ExecutiveID)
}

func scanCalendar(row *sql.Row) (persistence.Calendar, error) {
	var (
		calendar     persistence.Calendar
		availability string
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(&calendar.ExecutiveID, &availability, &calendar.Timezone, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Calendar{}, persistence.ErrNotFound
		}
		return persistence.Calendar{}, mapError(err)
	}

	if err := json.Unmarshal([]byte(availability), &calendar.Availability); err != nil {
		return persistence.Calendar{}, fmt.Errorf("sqlite: decode availability: %w", err)
	}
	var err error
	if calendar.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Calendar{}, err
	}
	if calendar.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Calendar{}, err
	}
	return calendar, nil
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}
