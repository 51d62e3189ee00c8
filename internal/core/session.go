package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultCommitEveryBatches is how many flushed batches share one transaction.
const DefaultCommitEveryBatches = 40

// sessionConn is the part of *pgxpool.Conn a load session uses.
type sessionConn interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Begin(context.Context) (pgx.Tx, error)
	Release()
}

// loadSession is the connection the batch loader writes through. It runs
// without a statement timeout and with asynchronous commit, and commits
// every commitEvery flushed batches.
type loadSession struct {
	conn        sessionConn
	tx          pgx.Tx
	commitEvery int
	batches     int
}

// openLoadSession takes ownership of conn; it is released by close, or
// before returning on error.
func openLoadSession(ctx context.Context, conn sessionConn, commitEvery int) (*loadSession, error) {
	if commitEvery < 1 {
		commitEvery = DefaultCommitEveryBatches
	}
	s := &loadSession{conn: conn, commitEvery: commitEvery}

	for _, stmt := range []string{
		"SET statement_timeout = 0",
		"SET synchronous_commit = off",
	} {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("configure load session: %w", err)
		}
	}

	if err := s.begin(ctx); err != nil {
		s.close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *loadSession) begin(ctx context.Context) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin load transaction: %w", err)
	}
	s.tx = tx
	return nil
}

// Exec runs in the open load transaction.
func (s *loadSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if s.tx == nil {
		return pgconn.CommandTag{}, errors.New("load session has no open transaction")
	}
	return s.tx.Exec(ctx, sql, args...)
}

// batchFlushed commits and reopens the transaction every commitEvery calls.
func (s *loadSession) batchFlushed(ctx context.Context) error {
	s.batches++
	if s.batches%s.commitEvery != 0 {
		return nil
	}
	if err := s.commit(ctx); err != nil {
		return err
	}
	return s.begin(ctx)
}

// commit commits the open transaction, if any.
func (s *loadSession) commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit load transaction: %w", err)
	}
	return nil
}

// close rolls back an uncommitted transaction, resets the session settings
// and returns the connection to the pool.
func (s *loadSession) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if s.tx != nil {
		_ = s.tx.Rollback(ctx)
		s.tx = nil
	}
	_, _ = s.conn.Exec(ctx, "RESET ALL")
	s.conn.Release()
}
