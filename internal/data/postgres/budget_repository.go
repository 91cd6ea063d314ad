package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// BudgetRepository implements the event.BudgetRepository interface for PostgreSQL
type BudgetRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBudgetRepository creates a new PostgreSQL budget repository
func NewBudgetRepository(logger *slog.Logger, db *persistence.PostgresDB) event.BudgetRepository {
	return &BudgetRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new budget record
func (r *BudgetRepository) Create(ctx context.Context, budget *event.Budget) error {
	query := `
		INSERT INTO budgets (id, event_id, sub_event_id, amount, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		budget.ID,
		budget.EventID,
		budget.SubEventID,
		budget.Amount,
		budget.Notes,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create budget", "error", err)
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// ByScope retrieves the budget attached to an event or sub-event.
// Returns (nil, nil) when the scope has no budget; more than one record is
// tolerated by taking the first.
func (r *BudgetRepository) ByScope(ctx context.Context, scope ledger.Scope) (*event.Budget, error) {
	query := `
		SELECT id, event_id, sub_event_id, amount, notes, created_at, updated_at
		FROM budgets
		WHERE ` + scopeColumn(scope) + ` = $1
		ORDER BY created_at
		LIMIT 1
	`

	var b event.Budget
	err := r.querier.QueryRow(ctx, query, scope.ID).Scan(
		&b.ID,
		&b.EventID,
		&b.SubEventID,
		&b.Amount,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Absent budget is an expected state, not an error
		}
		r.logger.Error("Failed to get budget", "scope_id", scope.ID.String(), "error", err)
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &b, nil
}
