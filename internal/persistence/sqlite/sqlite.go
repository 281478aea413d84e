// Package sqlite implements the persistence contracts on SQLite via the
// pure-Go modernc.org/sqlite driver. Availability lists are stored as JSON
// text; notification dedup signatures are answered by an indexed lookup.
package sqlite

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS calendars (
	executive_id TEXT PRIMARY KEY,
	availability TEXT NOT NULL,
	timezone     TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS slots (
	id                     TEXT PRIMARY KEY,
	slot_id                TEXT NOT NULL UNIQUE,
	executive_id           TEXT NOT NULL,
	owner_id               TEXT NOT NULL,
	contract_id            TEXT NOT NULL,
	start_date             TEXT NOT NULL,
	end_date               TEXT NOT NULL,
	status                 TEXT NOT NULL,
	meeting_link           TEXT NOT NULL,
	contract_deadline_date TEXT,
	created_at             TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_slots_executive ON slots(executive_id);
CREATE INDEX IF NOT EXISTS idx_slots_owner ON slots(owner_id);

CREATE TABLE IF NOT EXISTS notifications (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	type         TEXT NOT NULL,
	reference_id TEXT NOT NULL,
	message      TEXT NOT NULL,
	read         INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_signature
	ON notifications(user_id, type, reference_id, message);
`

// Migrate creates the schema when it does not exist yet. The statements are
// idempotent, so running it on every startup is safe.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
