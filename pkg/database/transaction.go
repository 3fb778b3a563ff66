package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTransaction function:
//     Begin transaction từ pool
//     Đặt tx vào context để repositories dùng chung transaction
//     Rollback nếu fn return error hoặc panic
//     Commit nếu không có error

// DBTX là phần chung giữa *pgxpool.Pool và pgx.Tx
// Repositories chỉ phụ thuộc vào interface này
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor chạy fn trong một transaction duy nhất
// Service layer chỉ biết interface này, không biết pgx
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// Conn trả về transaction đang mở trong ctx, nếu không có thì trả về pool
func Conn(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// PgxTransactor implements Transactor trên pgxpool
type PgxTransactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *PgxTransactor {
	return &PgxTransactor{pool: pool}
}

// WithinTransaction mở transaction mới, hoặc tham gia transaction đã có trong ctx
func (t *PgxTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return WithTransaction(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// TxFunc là function type được execute trong transaction
type TxFunc func(pgx.Tx) error

// WithTransaction wraps một function trong transaction
// Auto rollback nếu có error, auto commit nếu success
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer rollback (sẽ bị ignore nếu đã commit)
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p) // Re-throw panic
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err // Defer sẽ rollback
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult wraps function có return value trong transaction
func WithTransactionResult[T any](ctx context.Context, t Transactor, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T

	err := t.WithinTransaction(ctx, func(txCtx context.Context) error {
		var fnErr error
		result, fnErr = fn(txCtx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
