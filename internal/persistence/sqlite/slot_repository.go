package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/auction-scheduler/internal/persistence"
)

const slotColumns = `id, slot_id, executive_id, owner_id, contract_id,
	start_date, end_date, status, meeting_link, contract_deadline_date, created_at`

// SlotRepository implements persistence.SlotRepository on SQLite.
type SlotRepository struct {
	db    dbtx
	idGen func() string
	now   func() time.Time
}

// NewSlotRepository binds a slot repository to a database handle or
// transaction.
func NewSlotRepository(db dbtx, idGen func() string, now func() time.Time) *SlotRepository {
	if idGen == nil {
		idGen = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &SlotRepository{db: db, idGen: idGen, now: now}
}

func (r *SlotRepository) CreateSlot(ctx context.Context, slot persistence.Slot) (persistence.Slot, error) {
	slot.ID = r.idGen()
	slot.CreatedAt = r.now().UTC()

	var deadline sql.NullString
	if slot.ContractDeadlineDate != nil {
		deadline = sql.NullString{String: *slot.ContractDeadlineDate, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slots (`+slotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		slot.ID, slot.SlotID, slot.ExecutiveID, slot.OwnerID, slot.ContractID,
		slot.StartDate, slot.EndDate, string(slot.Status), slot.MeetingLink,
		deadline, slot.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return persistence.Slot{}, mapError(err)
	}
	return slot, nil
}

func (r *SlotRepository) FindBySlotID(ctx context.Context, slotID string) (persistence.Slot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+slotColumns+` FROM slots WHERE slot_id = ?`, slotID)
	return scanSlotRow(row)
}

func (r *SlotRepository) ListByExecutiveID(ctx context.Context, executiveID string) ([]persistence.Slot, error) {
	return r.list(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE executive_id = ? ORDER BY created_at, rowid`, executiveID)
}

func (r *SlotRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]persistence.Slot, error) {
	return r.list(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE owner_id = ? ORDER BY created_at, rowid`, ownerID)
}

func (r *SlotRepository) ListAll(ctx context.Context) ([]persistence.Slot, error) {
	return r.list(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY created_at, rowid`)
}

func (r *SlotRepository) UpdateStatus(ctx context.Context, slotID string, status persistence.SlotStatus) (persistence.Slot, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE slots SET status = ? WHERE slot_id = ?`, string(status), slotID)
	if err != nil {
		return persistence.Slot{}, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Slot{}, err
	}
	if affected == 0 {
		return persistence.Slot{}, persistence.ErrNotFound
	}
	return r.FindBySlotID(ctx, slotID)
}

func (r *SlotRepository) list(ctx context.Context, query string, args ...any) ([]persistence.Slot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	slots := make([]persistence.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (persistence.Slot, error) {
	var (
		slot      persistence.Slot
		status    string
		deadline  sql.NullString
		createdAt string
	)
	err := row.Scan(&slot.ID, &slot.SlotID, &slot.ExecutiveID, &slot.OwnerID,
		&slot.ContractID, &slot.StartDate, &slot.EndDate, &status,
		&slot.MeetingLink, &deadline, &createdAt)
	if err != nil {
		return persistence.Slot{}, err
	}

	slot.Status = persistence.SlotStatus(status)
	if deadline.Valid {
		value := deadline.String
		slot.ContractDeadlineDate = &value
	}
	if slot.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Slot{}, err
	}
	return slot, nil
}

func scanSlotRow(row *sql.Row) (persistence.Slot, error) {
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Slot{}, persistence.ErrNotFound
		}
		return persistence.Slot{}, mapError(err)
	}
	return slot, nil
}
