package repositories

import "context"

// TxFn runs inside a transaction; the ctx it receives carries the open
// transaction for every repository call made within it.
type TxFn func(ctx context.Context) error

// TransactionManager scopes multi-row mutations, like folder deletion
// with drawing reparenting, to a single transaction.
type TransactionManager interface {
	// ExecTx runs fn in a transaction, committing on nil and rolling
	// back on error or panic
	ExecTx(ctx context.Context, fn TxFn) error
}
