package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/notification"
	"github.com/finsight-event-ledger/internal/platform/persistence"
	"github.com/google/uuid"
)

// NotificationRepository implements the notification.Repository interface for PostgreSQL
type NotificationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(logger *slog.Logger, db *persistence.PostgresDB) notification.Repository {
	return &NotificationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create appends a notification row
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, severity, read, created_at, related_event_id, related_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Severity,
		n.Read,
		n.CreatedAt,
		n.RelatedEventID,
		n.RelatedTransactionID,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", "user_id", n.UserID.String(), "error", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a page of a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	query := `
		SELECT id, user_id, title, message, severity, read, created_at, related_event_id, related_transaction_id
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list notifications", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Severity,
			&n.Read,
			&n.CreatedAt,
			&n.RelatedEventID,
			&n.RelatedTransactionID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	return notifications, nil
}

// UnreadCount returns the number of unread notifications for a user
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count unread notifications", "user_id", userID.String(), "error", err)
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips the read flag on one notification. Marking an already-read
// notification is a no-op; a missing id is reported as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`

	tag, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark notification read", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound{NotificationID: id}
	}

	return nil
}

// MarkAllRead flips the read flag on all of a user's unread notifications
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`

	if _, err := r.querier.Exec(ctx, query, userID); err != nil {
		r.logger.Error("Failed to mark all notifications read", "user_id", userID.String(), "error", err)
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return nil
}
