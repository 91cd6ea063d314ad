// Package audit is the engine's activity and notification sink. Writes here
// are best-effort side effects of a primary mutation: a failure is logged
// and reported as a flag, never raised, so it can never roll back or block
// the operation that triggered it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/finsight-event-ledger/internal/domain/notification"
	"github.com/google/uuid"
)

// Activity describes one user action to be appended to the audit trail.
type Activity struct {
	UserID      uuid.UUID
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	Description string
	IPAddress   string
}

// Sink appends audit entries and notifications behind a failure boundary.
type Sink struct {
	notifications notification.Repository
	activities    notification.ActivityRepository
	logger        *slog.Logger
}

// NewSink creates an activity and notification sink
func NewSink(logger *slog.Logger, notifications notification.Repository, activities notification.ActivityRepository) *Sink {
	return &Sink{
		notifications: notifications,
		activities:    activities,
		logger:        logger,
	}
}

// RecordActivity appends one audit row. It reports success as a flag; a
// write failure is logged internally and the caller decides whether to
// continue.
func (s *Sink) RecordActivity(ctx context.Context, activity Activity) bool {
	entry := &notification.ActivityLog{
		ID:          uuid.New(),
		UserID:      activity.UserID,
		Action:      activity.Action,
		EntityType:  activity.EntityType,
		EntityID:    activity.EntityID,
		Description: activity.Description,
		IPAddress:   activity.IPAddress,
		CreatedAt:   time.Now(),
	}

	if err := s.activities.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to record activity",
			"user_id", activity.UserID.String(),
			"action", activity.Action,
			"entity_type", activity.EntityType,
			"error", err,
		)
		return false
	}
	return true
}

// Notify appends one notification row with the read flag cleared. Same
// failure-isolation contract as RecordActivity.
func (s *Sink) Notify(ctx context.Context, payload notification.Payload) bool {
	n := &notification.Notification{
		ID:                   uuid.New(),
		UserID:               payload.UserID,
		Title:                payload.Title,
		Message:              payload.Message,
		Severity:             payload.Severity,
		Read:                 false,
		CreatedAt:            time.Now(),
		RelatedEventID:       payload.RelatedEventID,
		RelatedTransactionID: payload.RelatedTransactionID,
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			"user_id", payload.UserID.String(),
			"title", payload.Title,
			"error", err,
		)
		return false
	}
	return true
}

// MarkRead flips one notification's read flag. Marking an already-read
// notification again is a no-op.
func (s *Sink) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id)
}

// MarkAllRead flips the read flag on all of a user's unread notifications
func (s *Sink) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// UnreadCount returns how many unread notifications a user has
func (s *Sink) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

// ListByUser returns a page of a user's notifications, newest first
func (s *Sink) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, limit, offset)
}
