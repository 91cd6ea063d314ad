package notification

import (
	"time"

	"github.com/google/uuid"
)

// Severity tags a notification for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notification is a per-user message created by the engine. The engine only
// ever appends these; the read flag is the one field mutated afterwards.
type Notification struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	Title                string     `json:"title"`
	Message              string     `json:"message"`
	Severity             Severity   `json:"severity"`
	Read                 bool       `json:"read"`
	CreatedAt            time.Time  `json:"created_at"`
	RelatedEventID       *uuid.UUID `json:"related_event_id,omitempty"`
	RelatedTransactionID *uuid.UUID `json:"related_transaction_id,omitempty"`
}

// Payload is a not-yet-persisted notification addressed to one user.
type Payload struct {
	UserID               uuid.UUID
	Title                string
	Message              string
	Severity             Severity
	RelatedEventID       *uuid.UUID
	RelatedTransactionID *uuid.UUID
}

// ActivityLog is an immutable audit record of one user action.
type ActivityLog struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    uuid.UUID `json:"entity_id"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
