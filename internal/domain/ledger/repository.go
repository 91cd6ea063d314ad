package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages transaction and item persistence.
// Header and item writes for one logical operation are expected to run on
// the same database transaction via WithTx.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	Update(ctx context.Context, txn *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByScope(ctx context.Context, scope Scope) ([]*Transaction, error)

	// IDsByScope returns the identifiers of transactions in the scope that
	// match every supplied filter field.
	IDsByScope(ctx context.Context, scope Scope, filter Filter) ([]uuid.UUID, error)

	InsertItems(ctx context.Context, items []TransactionItem) error
	DeleteItems(ctx context.Context, transactionID uuid.UUID) error
	ItemsByTransaction(ctx context.Context, transactionID uuid.UUID) ([]TransactionItem, error)
	ItemsByTransactions(ctx context.Context, transactionIDs []uuid.UUID) ([]TransactionItem, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing transaction header
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// An empty target TransactionID matches any ErrTransactionNotFound
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
