package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/example/auction-scheduler/internal/persistence"
)

// TxManager implements persistence.TxManager over a SQLite connection pool.
// Each unit of work runs inside one database transaction, so a failing unit
// rolls back every write it issued.
type TxManager struct {
	pool  *ConnectionPool
	idGen func() string
	now   func() time.Time
}

// Option customises a TxManager.
type Option func(*TxManager)

// WithIDGenerator overrides the generated-id source.
func WithIDGenerator(idGen func() string) Option {
	return func(m *TxManager) {
		if idGen != nil {
			m.idGen = idGen
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *TxManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewTxManager wraps the pool in a transactional executor.
func NewTxManager(pool *ConnectionPool, opts ...Option) *TxManager {
	m := &TxManager{
		pool:  pool,
		idGen: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunInTransaction executes work against transaction-bound repositories.
func (m *TxManager) RunInTransaction(ctx context.Context, work persistence.UnitOfWork) error {
	return m.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		repos := persistence.Repositories{
			Calendars:     NewCalendarRepository(tx, m.now),
			Slots:         NewSlotRepository(tx, m.idGen, m.now),
			Notifications: NewNotificationRepository(tx, m.idGen, m.now),
		}
		return work(ctx, repos)
	})
}
