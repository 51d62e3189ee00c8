package core

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errInjected = errors.New("injected failure")

// fakeTx records statements into a shared log. Methods not overridden panic
// through the nil embedded pgx.Tx.
type fakeTx struct {
	pgx.Tx
	log    *[]string
	failOn string
	closed bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	*t.log = append(*t.log, sql)
	if t.failOn != "" && strings.Contains(sql, t.failOn) {
		return pgconn.CommandTag{}, errInjected
	}
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Commit(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	*t.log = append(*t.log, "COMMIT")
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	*t.log = append(*t.log, "ROLLBACK")
	return nil
}

// fakeConn stands in for *pgxpool.Conn.
type fakeConn struct {
	log      []string
	failOn   string
	released int
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.log = append(c.log, sql)
	return pgconn.CommandTag{}, nil
}

func (c *fakeConn) Begin(context.Context) (pgx.Tx, error) {
	c.log = append(c.log, "BEGIN")
	return &fakeTx{log: &c.log, failOn: c.failOn}, nil
}

func (c *fakeConn) Release() { c.released++ }
