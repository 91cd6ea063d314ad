package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/monitor"
	"github.com/finsight-event-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// AlertStateRepository implements the monitor.TierStore interface for PostgreSQL
type AlertStateRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAlertStateRepository creates a new PostgreSQL alert state repository
func NewAlertStateRepository(logger *slog.Logger, db *persistence.PostgresDB) monitor.TierStore {
	return &AlertStateRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// LastNotified returns the last tier announced for a scope. A scope that has
// never been announced reads as Normal.
func (r *AlertStateRepository) LastNotified(ctx context.Context, scope ledger.Scope) (monitor.Tier, error) {
	var tier string
	err := r.querier.QueryRow(ctx,
		`SELECT tier FROM budget_alert_states WHERE scope_id = $1 AND sub_event = $2`,
		scope.ID, scope.SubEvent).Scan(&tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return monitor.TierNormal, nil
		}
		r.logger.Error("Failed to load alert state", "scope_id", scope.ID.String(), "error", err)
		return monitor.TierNormal, fmt.Errorf("failed to load alert state: %w", err)
	}
	return monitor.Tier(tier), nil
}

// SetLastNotified upserts the last announced tier for a scope
func (r *AlertStateRepository) SetLastNotified(ctx context.Context, scope ledger.Scope, tier monitor.Tier) error {
	query := `
		INSERT INTO budget_alert_states (scope_id, sub_event, tier, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (scope_id, sub_event) DO UPDATE SET tier = EXCLUDED.tier, updated_at = NOW()
	`

	if _, err := r.querier.Exec(ctx, query, scope.ID, scope.SubEvent, string(tier)); err != nil {
		r.logger.Error("Failed to store alert state", "scope_id", scope.ID.String(), "error", err)
		return fmt.Errorf("failed to store alert state: %w", err)
	}
	return nil
}
