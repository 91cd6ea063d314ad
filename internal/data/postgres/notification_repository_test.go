package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finsight-event-ledger/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &NotificationRepository{querier: mock, logger: logger}

	eventID := uuid.New()
	n := &notification.Notification{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Title:          "Budget Exceeded",
		Message:        "Event \"Tech Fest\" has exceeded its budget.",
		Severity:       notification.SeverityDanger,
		Read:           false,
		CreatedAt:      time.Now(),
		RelatedEventID: &eventID,
	}

	query := `
		INSERT INTO notifications \(id, user_id, title, message, severity, read, created_at, related_event_id, related_transaction_id\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(n.ID, n.UserID, n.Title, n.Message, n.Severity, n.Read, n.CreatedAt, n.RelatedEventID, n.RelatedTransactionID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, n)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(n.ID, n.UserID, n.Title, n.Message, n.Severity, n.Read, n.CreatedAt, n.RelatedEventID, n.RelatedTransactionID).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, n)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &NotificationRepository{querier: mock, logger: logger}
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		now := time.Now()
		rows := pgxmock.NewRows([]string{"id", "user_id", "title", "message", "severity", "read", "created_at", "related_event_id", "related_transaction_id"}).
			AddRow(uuid.New(), userID, "Budget Milestone - 50% Used", "half used", notification.SeverityInfo, false, now, (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
			AddRow(uuid.New(), userID, "Large Transaction Alert", "large txn", notification.SeverityWarning, true, now.Add(-time.Hour), (*uuid.UUID)(nil), (*uuid.UUID)(nil))

		mock.ExpectQuery(`FROM notifications`).
			WithArgs(userID, 20, 0).
			WillReturnRows(rows)

		notifications, err := repo.ListByUser(ctx, userID, 20, 0)
		require.NoError(t, err)
		require.Len(t, notifications, 2)
		assert.Equal(t, "Budget Milestone - 50% Used", notifications[0].Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_UnreadCount(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &NotificationRepository{querier: mock, logger: logger}
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND read = FALSE`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))

	count, err := repo.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &NotificationRepository{querier: mock, logger: logger}
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.MarkRead(ctx, id)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("alreadyReadIsStillSuccess", func(t *testing.T) {
		// The update matches the row regardless of the current flag value,
		// so re-marking reports one affected row.
		mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.MarkRead(ctx, id)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("notFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkRead(ctx, id)
		assert.ErrorIs(t, err, notification.ErrNotificationNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &NotificationRepository{querier: mock, logger: logger}
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE user_id = \$1 AND read = FALSE`).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 5))

		err := repo.MarkAllRead(ctx, userID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("noUnreadRowsIsStillSuccess", func(t *testing.T) {
		mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE user_id = \$1 AND read = FALSE`).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkAllRead(ctx, userID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
