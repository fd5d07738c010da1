package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so one
// repository method runs unchanged inside or outside a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// TxFn is a unit of work run by ExecTx
type TxFn func(ctx context.Context) error

// TransactionManager runs multi-step writes (folder delete with reassignment,
// assignment plus recount) atomically
type TransactionManager interface {
	// ExecTx runs fn in a transaction carried by ctx. A nested call joins
	// the outer transaction; fn returning an error rolls everything back.
	ExecTx(ctx context.Context, fn TxFn) error
}

type txContextKey struct{}

// SetTx returns a context carrying tx
func SetTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// GetTx returns the transaction carried by ctx, or nil
func GetTx(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txContextKey{}).(pgx.Tx)
	return tx
}

// InTx reports whether ctx carries a transaction
func InTx(ctx context.Context) bool {
	return GetTx(ctx) != nil
}
