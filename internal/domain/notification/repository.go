package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages notification persistence. MarkRead and MarkAllRead are
// idempotent: flipping an already-read flag is a no-op, not an error.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// ActivityRepository appends audit records. Append-only: there is no update
// or delete surface at all.
type ActivityRepository interface {
	Append(ctx context.Context, entry *ActivityLog) error
}

// ErrNotificationNotFound indicates a missing notification
type ErrNotificationNotFound struct {
	NotificationID uuid.UUID
}

func (e ErrNotificationNotFound) Error() string {
	return "notification not found: " + e.NotificationID.String()
}

// Is implements the errors.Is interface for ErrNotificationNotFound
func (e ErrNotificationNotFound) Is(target error) bool {
	t, ok := target.(ErrNotificationNotFound)
	if !ok {
		return false
	}
	if t.NotificationID == uuid.Nil {
		return true
	}
	return e.NotificationID == t.NotificationID
}
