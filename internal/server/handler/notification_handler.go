package handler

import (
	"errors"
	"log/slog"

	"github.com/finsight-event-ledger/internal/audit"
	"github.com/finsight-event-ledger/internal/domain/notification"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationHandler handles HTTP requests for per-user notifications
type NotificationHandler struct {
	sink   *audit.Sink
	logger *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(logger *slog.Logger, sink *audit.Sink) *NotificationHandler {
	return &NotificationHandler{
		sink:   sink,
		logger: logger,
	}
}

// List retrieves the acting user's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	limit := params.PerPage
	offset := (params.Page - 1) * params.PerPage

	notifications, err := h.sink.ListByUser(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list notifications", "user_id", actor.UserID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"notifications": notifications})
}

// UnreadCount returns the number of unread notifications for the acting user
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	count, err := h.sink.UnreadCount(c.Request.Context(), actor.UserID)
	if err != nil {
		h.logger.Error("Failed to count unread notifications", "user_id", actor.UserID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"unread_count": count})
}

// MarkRead marks one notification as read, returns 404 if it does not exist
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.sink.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound{}) {
			RespondNotFound(c, "Notification not found")
			return
		}
		h.logger.Error("Failed to mark notification read", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// MarkAllRead marks every notification of the acting user as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	if err := h.sink.MarkAllRead(c.Request.Context(), actor.UserID); err != nil {
		h.logger.Error("Failed to mark notifications read", "user_id", actor.UserID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}
