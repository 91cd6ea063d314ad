package event

import (
	"context"

	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// Repository manages event and sub-event reads.
// The engine only ever reads these records; ownership stays with the
// administrative layer.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetSubEvent(ctx context.Context, id uuid.UUID) (*SubEvent, error)
	List(ctx context.Context) ([]*Event, error)
	ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]*SubEvent, error)

	// OwnerOf resolves the event that owns a scope: the event itself for an
	// event scope, the parent event for a sub-event scope.
	OwnerOf(ctx context.Context, scope ledger.Scope) (*Event, error)
}

// BudgetRepository manages budget reads and writes.
// ByScope returns (nil, nil) when no budget is attached to the scope;
// a missing budget is an expected state, not an error.
type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) error
	ByScope(ctx context.Context, scope ledger.Scope) (*Budget, error)
}

// ErrEventNotFound indicates a missing event
type ErrEventNotFound struct {
	EventID uuid.UUID
}

func (e ErrEventNotFound) Error() string {
	return "event not found: " + e.EventID.String()
}

// Is implements the errors.Is interface for ErrEventNotFound
func (e ErrEventNotFound) Is(target error) bool {
	t, ok := target.(ErrEventNotFound)
	if !ok {
		return false
	}
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}

// ErrSubEventNotFound indicates a missing sub-event
type ErrSubEventNotFound struct {
	SubEventID uuid.UUID
}

func (e ErrSubEventNotFound) Error() string {
	return "sub-event not found: " + e.SubEventID.String()
}

// Is implements the errors.Is interface for ErrSubEventNotFound
func (e ErrSubEventNotFound) Is(target error) bool {
	t, ok := target.(ErrSubEventNotFound)
	if !ok {
		return false
	}
	if t.SubEventID == uuid.Nil {
		return true
	}
	return e.SubEventID == t.SubEventID
}
