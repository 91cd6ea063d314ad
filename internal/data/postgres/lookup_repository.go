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

// LookupRepository implements the ledger.Lookup interface for PostgreSQL
type LookupRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLookupRepository creates a new PostgreSQL lookup repository
func NewLookupRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Lookup {
	return &LookupRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// CategoryName resolves a category id to its display name
func (r *LookupRepository) CategoryName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.querier.QueryRow(ctx, `SELECT name FROM categories WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ledger.ErrCategoryNotFound{CategoryID: id}
		}
		r.logger.Error("Failed to resolve category name", "id", id.String(), "error", err)
		return "", fmt.Errorf("failed to resolve category name: %w", err)
	}
	return name, nil
}

// ModeName resolves a payment mode id to its display name
func (r *LookupRepository) ModeName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.querier.QueryRow(ctx, `SELECT name FROM payment_modes WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ledger.ErrModeNotFound{ModeID: id}
		}
		r.logger.Error("Failed to resolve payment mode name", "id", id.String(), "error", err)
		return "", fmt.Errorf("failed to resolve payment mode name: %w", err)
	}
	return name, nil
}

// ListCategories retrieves all transaction categories
func (r *LookupRepository) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	rows, err := r.querier.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []ledger.Category
	for rows.Next() {
		var c ledger.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

// ListModes retrieves all payment modes
func (r *LookupRepository) ListModes(ctx context.Context) ([]ledger.PaymentMode, error) {
	rows, err := r.querier.Query(ctx, `SELECT id, name, created_at FROM payment_modes ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to list payment modes", "error", err)
		return nil, fmt.Errorf("failed to list payment modes: %w", err)
	}
	defer rows.Close()

	var modes []ledger.PaymentMode
	for rows.Next() {
		var m ledger.PaymentMode
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment mode: %w", err)
		}
		modes = append(modes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment modes: %w", err)
	}

	return modes, nil
}
