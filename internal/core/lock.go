package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ImportLockKey is the advisory lock key shared by every importer process.
const ImportLockKey int64 = 9127341

// Lock is a held import lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out the cluster-wide import lock.
type Locker interface {
	// TryAcquire returns ErrLockNotAcquired when another session holds the lock.
	TryAcquire(ctx context.Context) (Lock, error)
}

// AdvisoryLocker takes a Postgres session advisory lock on a dedicated
// pooled connection. The connection stays checked out until Release.
type AdvisoryLocker struct {
	pool *pgxpool.Pool
	key  int64
}

// NewAdvisoryLocker returns a locker for ImportLockKey.
func NewAdvisoryLocker(pool *pgxpool.Pool) *AdvisoryLocker {
	return &AdvisoryLocker{pool: pool, key: ImportLockKey}
}

func (l *AdvisoryLocker) TryAcquire(ctx context.Context) (Lock, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&locked); err != nil {
		conn.Release()
		return nil, fmt.Errorf("try advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, ErrLockNotAcquired
	}
	return &advisoryLock{conn: conn, key: l.key}, nil
}

type advisoryLock struct {
	conn *pgxpool.Conn
	key  int64
}

// Release unlocks on the connection that took the lock, then returns it to
// the pool.
func (l *advisoryLock) Release(ctx context.Context) error {
	defer l.conn.Release()
	if _, err := l.conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", l.key); err != nil {
		return fmt.Errorf("advisory unlock: %w", err)
	}
	return nil
}
