package ledger

import "github.com/google/uuid"

// Scope selects the key space a transaction set is read from: transactions
// attached directly to an event, or those attached to one of its sub-events.
type Scope struct {
	ID       uuid.UUID
	SubEvent bool
}

// EventScope scopes reads to transactions owned directly by an event
func EventScope(eventID uuid.UUID) Scope {
	return Scope{ID: eventID}
}

// SubEventScope scopes reads to transactions owned by a sub-event
func SubEventScope(subEventID uuid.UUID) Scope {
	return Scope{ID: subEventID, SubEvent: true}
}

// Filter is a typed conjunctive predicate over transaction headers.
// A nil field matches everything for that column.
type Filter struct {
	Nature     *Nature
	CategoryID *uuid.UUID
	ModeID     *uuid.UUID
}

// ByNature returns a filter matching a single nature
func ByNature(n Nature) Filter {
	return Filter{Nature: &n}
}

// ByCategory returns a filter matching a single category
func ByCategory(categoryID uuid.UUID) Filter {
	return Filter{CategoryID: &categoryID}
}

// ByMode returns a filter matching a single payment mode
func ByMode(modeID uuid.UUID) Filter {
	return Filter{ModeID: &modeID}
}
