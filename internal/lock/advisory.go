// Package lock provides advisory run locking so two goprofile instances
// do not profile the same table job concurrently.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbsmedya/goprofile/internal/dialect"
)

// ErrLockHeld is returned when another instance already holds the run lock.
var ErrLockHeld = errors.New("run lock is held by another instance")

// RunLock is a named advisory lock scoped to one database session.
// Engines with native advisory locks (MySQL GET_LOCK, PostgreSQL
// pg_try_advisory_lock) enforce it server-side; for every other engine
// the lock degrades to a no-op, since embedded engines are single-writer
// and warehouse engines have no advisory mechanism.
type RunLock struct {
	db   *sql.DB
	d    dialect.Dialect
	name string

	// Advisory locks are session-scoped, so acquisition pins one
	// connection for the lock's lifetime.
	conn *sql.Conn
	held bool
}

// NewRunLock creates a lock named after the job. The lock is not
// acquired until AcquireOrFail is called.
func NewRunLock(db *sql.DB, d dialect.Dialect, job string) *RunLock {
	return &RunLock{
		db:   db,
		d:    d,
		name: "goprofile:" + job,
	}
}

// AcquireOrFail tries to take the lock without waiting. Returns
// ErrLockHeld when another instance holds it.
func (l *RunLock) AcquireOrFail(ctx context.Context) error {
	if l.held {
		return nil
	}

	switch l.d {
	case dialect.MySQL, dialect.Postgres:
	default:
		l.held = true // no advisory mechanism, degrade to a no-op
		return nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to pin lock session: %w", err)
	}

	acquired, err := l.tryAcquire(ctx, conn)
	if err != nil {
		conn.Close()
		return err
	}
	if !acquired {
		conn.Close()
		return ErrLockHeld
	}

	l.conn = conn
	l.held = true
	return nil
}

func (l *RunLock) tryAcquire(ctx context.Context, conn *sql.Conn) (bool, error) {
	switch l.d {
	case dialect.MySQL:
		// GET_LOCK: 1 acquired, 0 timeout, NULL engine error.
		var result sql.NullInt64
		err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", l.name, 0).Scan(&result)
		if err != nil {
			return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
		}
		if !result.Valid {
			return false, fmt.Errorf("GET_LOCK returned NULL for lock %q", l.name)
		}
		return result.Int64 == 1, nil

	case dialect.Postgres:
		var acquired bool
		err := conn.QueryRowContext(ctx,
			"SELECT pg_try_advisory_lock(hashtext($1))", l.name).Scan(&acquired)
		if err != nil {
			return false, fmt.Errorf("failed to execute pg_try_advisory_lock: %w", err)
		}
		return acquired, nil

	default:
		return true, nil
	}
}

// Release gives the lock back and unpins the session. Safe to call when
// the lock was never acquired.
func (l *RunLock) Release(ctx context.Context) error {
	if !l.held {
		return nil
	}
	l.held = false

	if l.conn == nil {
		return nil
	}
	defer func() {
		l.conn.Close()
		l.conn = nil
	}()

	switch l.d {
	case dialect.MySQL:
		var result sql.NullInt64
		if err := l.conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", l.name).Scan(&result); err != nil {
			return fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
		}
	case dialect.Postgres:
		var released bool
		if err := l.conn.QueryRowContext(ctx,
			"SELECT pg_advisory_unlock(hashtext($1))", l.name).Scan(&released); err != nil {
			return fmt.Errorf("failed to execute pg_advisory_unlock: %w", err)
		}
	}
	return nil
}

// Held reports whether this instance currently holds the lock.
func (l *RunLock) Held() bool {
	return l.held
}
