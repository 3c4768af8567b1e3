package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const connKey contextKey = "db_conn"

// Conn is the minimal query surface shared by the pool, an acquired
// connection, and an open transaction. Repositories execute against whatever
// Conn the context carries, so a service can span several repository calls
// with one transaction without the repositories knowing.
type Conn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// WithConn returns a context carrying the given connection or transaction.
func WithConn(ctx context.Context, conn Conn) context.Context {
	return context.WithValue(ctx, connKey, conn)
}

// ConnFromContext returns the connection stashed in ctx, or nil when the
// caller should fall back to the pool.
func ConnFromContext(ctx context.Context) Conn {
	conn, _ := ctx.Value(connKey).(Conn)
	return conn
}

// Transactor runs functions inside a database transaction. The transaction is
// placed in the context handed to fn, so every repository call fn makes joins
// the same transaction.
type Transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// InTx begins a transaction, invokes fn with the transaction in context, and
// commits if fn returns nil. Any error from fn rolls the transaction back and
// is returned unchanged so typed errors survive.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithConn(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
