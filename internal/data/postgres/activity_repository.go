package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/notification"
	"github.com/finsight-event-ledger/internal/platform/persistence"
)

// ActivityRepository implements the notification.ActivityRepository interface for PostgreSQL
type ActivityRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewActivityRepository creates a new PostgreSQL activity log repository
func NewActivityRepository(logger *slog.Logger, db *persistence.PostgresDB) notification.ActivityRepository {
	return &ActivityRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Append stores one audit record. The table is append-only; there is no
// update or delete surface.
func (r *ActivityRepository) Append(ctx context.Context, entry *notification.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, description, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Description,
		entry.IPAddress,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append activity log", "user_id", entry.UserID.String(), "error", err)
		return fmt.Errorf("failed to append activity log: %w", err)
	}

	return nil
}
