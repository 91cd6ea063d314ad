package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EventRepository implements the event.Repository interface for PostgreSQL
type EventRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(logger *slog.Logger, db *persistence.PostgresDB) event.Repository {
	return &EventRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves an event by its ID
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	query := `
		SELECT id, name, date, days, event_manager_id, finance_manager_id, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var ev event.Event
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&ev.ID,
		&ev.Name,
		&ev.Date,
		&ev.Days,
		&ev.EventManagerID,
		&ev.FinanceManagerID,
		&ev.CreatedAt,
		&ev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrEventNotFound{EventID: id}
		}
		r.logger.Error("Failed to get event", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &ev, nil
}

// GetSubEvent retrieves a sub-event by its ID
func (r *EventRepository) GetSubEvent(ctx context.Context, id uuid.UUID) (*event.SubEvent, error) {
	query := `
		SELECT id, event_id, name, date, created_at, updated_at
		FROM sub_events
		WHERE id = $1
	`

	var se event.SubEvent
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&se.ID,
		&se.EventID,
		&se.Name,
		&se.Date,
		&se.CreatedAt,
		&se.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrSubEventNotFound{SubEventID: id}
		}
		r.logger.Error("Failed to get sub-event", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get sub-event: %w", err)
	}

	return &se, nil
}

// List retrieves all events ordered by date
func (r *EventRepository) List(ctx context.Context) ([]*event.Event, error) {
	query := `
		SELECT id, name, date, days, event_manager_id, finance_manager_id, created_at, updated_at
		FROM events
		ORDER BY date
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list events", "error", err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		var ev event.Event
		if err := rows.Scan(
			&ev.ID,
			&ev.Name,
			&ev.Date,
			&ev.Days,
			&ev.EventManagerID,
			&ev.FinanceManagerID,
			&ev.CreatedAt,
			&ev.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// ListSubEvents retrieves the sub-events of one event ordered by date
func (r *EventRepository) ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]*event.SubEvent, error) {
	query := `
		SELECT id, event_id, name, date, created_at, updated_at
		FROM sub_events
		WHERE event_id = $1
		ORDER BY date
	`

	rows, err := r.querier.Query(ctx, query, eventID)
	if err != nil {
		r.logger.Error("Failed to list sub-events", "event_id", eventID.String(), "error", err)
		return nil, fmt.Errorf("failed to list sub-events: %w", err)
	}
	defer rows.Close()

	var subEvents []*event.SubEvent
	for rows.Next() {
		var se event.SubEvent
		if err := rows.Scan(
			&se.ID,
			&se.EventID,
			&se.Name,
			&se.Date,
			&se.CreatedAt,
			&se.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sub-event: %w", err)
		}
		subEvents = append(subEvents, &se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sub-events: %w", err)
	}

	return subEvents, nil
}

// OwnerOf resolves the event that owns a scope. For a sub-event scope this
// walks up to the parent event, which carries the manager assignments the
// budget monitor notifies.
func (r *EventRepository) OwnerOf(ctx context.Context, scope ledger.Scope) (*event.Event, error) {
	if !scope.SubEvent {
		return r.GetByID(ctx, scope.ID)
	}

	se, err := r.GetSubEvent(ctx, scope.ID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, se.EventID)
}
