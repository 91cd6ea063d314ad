// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the event ledger engine.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the ledger.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so that header and item
// writes for one logical operation commit or roll back as a unit.
func (r *TransactionRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new transaction header
func (r *TransactionRepository) Create(ctx context.Context, txn *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, event_id, sub_event_id, nature, category_id, mode_id, date, bill_no, counterparty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.EventID,
		txn.SubEventID,
		txn.Nature,
		txn.CategoryID,
		txn.ModeID,
		txn.Date,
		txn.BillNo,
		txn.Counterparty,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// Update rewrites a transaction header in place
func (r *TransactionRepository) Update(ctx context.Context, txn *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET nature = $2, category_id = $3, mode_id = $4, date = $5, bill_no = $6, counterparty = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.Nature,
		txn.CategoryID,
		txn.ModeID,
		txn.Date,
		txn.BillNo,
		txn.Counterparty,
		txn.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update transaction", "id", txn.ID.String(), "error", err)
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: txn.ID}
	}

	return nil
}

// Delete removes a transaction header. Items cascade at the schema level.
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	tag, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

// GetByID retrieves a transaction header by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT id, event_id, sub_event_id, nature, category_id, mode_id, date, bill_no, counterparty, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	var txn ledger.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.EventID,
		&txn.SubEventID,
		&txn.Nature,
		&txn.CategoryID,
		&txn.ModeID,
		&txn.Date,
		&txn.BillNo,
		&txn.Counterparty,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

// ListByScope retrieves all transaction headers for an event or sub-event
func (r *TransactionRepository) ListByScope(ctx context.Context, scope ledger.Scope) ([]*ledger.Transaction, error) {
	query := `
		SELECT id, event_id, sub_event_id, nature, category_id, mode_id, date, bill_no, counterparty, created_at, updated_at
		FROM transactions
		WHERE ` + scopeColumn(scope) + ` = $1
		ORDER BY date, created_at
	`

	rows, err := r.querier.Query(ctx, query, scope.ID)
	if err != nil {
		r.logger.Error("Failed to list transactions", "scope_id", scope.ID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*ledger.Transaction
	for rows.Next() {
		var txn ledger.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.EventID,
			&txn.SubEventID,
			&txn.Nature,
			&txn.CategoryID,
			&txn.ModeID,
			&txn.Date,
			&txn.BillNo,
			&txn.Counterparty,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return txns, nil
}

// IDsByScope returns the identifiers of the scope's transactions matching
// every filter field. The typed filter is rendered into positional SQL
// conditions, so unknown columns cannot be smuggled in.
func (r *TransactionRepository) IDsByScope(ctx context.Context, scope ledger.Scope, filter ledger.Filter) ([]uuid.UUID, error) {
	query := `SELECT id FROM transactions WHERE ` + scopeColumn(scope) + ` = $1`
	args := []interface{}{scope.ID}

	if filter.Nature != nil {
		args = append(args, *filter.Nature)
		query += fmt.Sprintf(" AND nature = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.ModeID != nil {
		args = append(args, *filter.ModeID)
		query += fmt.Sprintf(" AND mode_id = $%d", len(args))
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query transaction ids", "scope_id", scope.ID.String(), "error", err)
		return nil, fmt.Errorf("failed to query transaction ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan transaction id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction ids: %w", err)
	}

	return ids, nil
}

// InsertItems stores a batch of transaction items
func (r *TransactionRepository) InsertItems(ctx context.Context, items []ledger.TransactionItem) error {
	query := `
		INSERT INTO transaction_items (id, transaction_id, description, amount)
		VALUES ($1, $2, $3, $4)
	`

	for _, item := range items {
		_, err := r.querier.Exec(ctx, query,
			item.ID,
			item.TransactionID,
			item.Description,
			item.Amount,
		)
		if err != nil {
			r.logger.Error("Failed to insert transaction item", "transaction_id", item.TransactionID.String(), "error", err)
			return fmt.Errorf("failed to insert transaction item: %w", err)
		}
	}

	return nil
}

// DeleteItems removes all items for a transaction. It backs the
// replace-on-edit rule: editing deletes the prior set before inserting
// the new one.
func (r *TransactionRepository) DeleteItems(ctx context.Context, transactionID uuid.UUID) error {
	query := `DELETE FROM transaction_items WHERE transaction_id = $1`

	if _, err := r.querier.Exec(ctx, query, transactionID); err != nil {
		r.logger.Error("Failed to delete transaction items", "transaction_id", transactionID.String(), "error", err)
		return fmt.Errorf("failed to delete transaction items: %w", err)
	}

	return nil
}

// ItemsByTransaction retrieves the items of one transaction
func (r *TransactionRepository) ItemsByTransaction(ctx context.Context, transactionID uuid.UUID) ([]ledger.TransactionItem, error) {
	return r.queryItems(ctx,
		`SELECT id, transaction_id, description, amount FROM transaction_items WHERE transaction_id = $1`,
		transactionID)
}

// ItemsByTransactions retrieves the items of every transaction in the id set
func (r *TransactionRepository) ItemsByTransactions(ctx context.Context, transactionIDs []uuid.UUID) ([]ledger.TransactionItem, error) {
	if len(transactionIDs) == 0 {
		return nil, nil
	}
	return r.queryItems(ctx,
		`SELECT id, transaction_id, description, amount FROM transaction_items WHERE transaction_id = ANY($1)`,
		transactionIDs)
}

func (r *TransactionRepository) queryItems(ctx context.Context, query string, arg interface{}) ([]ledger.TransactionItem, error) {
	rows, err := r.querier.Query(ctx, query, arg)
	if err != nil {
		r.logger.Error("Failed to query transaction items", "error", err)
		return nil, fmt.Errorf("failed to query transaction items: %w", err)
	}
	defer rows.Close()

	var items []ledger.TransactionItem
	for rows.Next() {
		var item ledger.TransactionItem
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.Description, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction items: %w", err)
	}

	return items, nil
}

// scopeColumn maps a scope to the owning foreign key column
func scopeColumn(scope ledger.Scope) string {
	if scope.SubEvent {
		return "sub_event_id"
	}
	return "event_id"
}
