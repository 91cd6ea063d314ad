package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrBudgetScope       = errors.New("budget must attach to exactly one of event or sub-event")
	ErrInvalidAllocation = errors.New("budget amount must not be negative")
)

// Budget allocates an amount to an event or to a sub-event, never both.
// Amounts are in minor currency units.
type Budget struct {
	ID         uuid.UUID  `json:"id"`
	EventID    *uuid.UUID `json:"event_id,omitempty"`
	SubEventID *uuid.UUID `json:"sub_event_id,omitempty"`
	Amount     int64      `json:"amount"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewBudget creates a budget attached to either an event or a sub-event
func NewBudget(eventID, subEventID *uuid.UUID, amount int64, notes string) (*Budget, error) {
	if (eventID == nil) == (subEventID == nil) {
		return nil, ErrBudgetScope
	}
	if amount < 0 {
		return nil, ErrInvalidAllocation
	}

	now := time.Now()
	return &Budget{
		ID:         uuid.New(),
		EventID:    eventID,
		SubEventID: subEventID,
		Amount:     amount,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
