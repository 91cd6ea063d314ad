package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is the top-level unit that budgets and transactions hang off.
// Each event names the two users the budget monitor addresses its alerts to.
type Event struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Date             time.Time `json:"date"`
	Days             int       `json:"days"`
	EventManagerID   uuid.UUID `json:"event_manager_id"`
	FinanceManagerID uuid.UUID `json:"finance_manager_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SubEvent is a child of an event with its own date and transaction key space.
type SubEvent struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status classifies an event relative to the current date.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
)

// ClassifyDate maps an event date to its status for the given "today".
// Only calendar dates are compared; time of day never participates.
func ClassifyDate(eventDate, today time.Time) Status {
	d := truncateToDate(eventDate)
	t := truncateToDate(today)
	switch {
	case d.After(t):
		return StatusUpcoming
	case d.Equal(t):
		return StatusOngoing
	default:
		return StatusCompleted
	}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
