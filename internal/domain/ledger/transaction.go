package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrMissingEvent   = errors.New("transaction must reference an owning event")
	ErrInvalidNature  = errors.New("nature must be revenue or expense")
	ErrNegativeAmount = errors.New("item amount must not be negative")
	ErrEmptyItemDesc  = errors.New("item description cannot be empty")
)

// Nature classifies a transaction as money in or money out.
type Nature string

const (
	NatureRevenue Nature = "revenue"
	NatureExpense Nature = "expense"
)

// Valid reports whether the nature is one of the known values
func (n Nature) Valid() bool {
	return n == NatureRevenue || n == NatureExpense
}

// Transaction is a ledger header. Its monetary value is never stored here;
// it is always derived as the sum of its item amounts.
type Transaction struct {
	ID           uuid.UUID  `json:"id"`
	EventID      uuid.UUID  `json:"event_id"`
	SubEventID   *uuid.UUID `json:"sub_event_id,omitempty"`
	Nature       Nature     `json:"nature"`
	CategoryID   uuid.UUID  `json:"category_id"`
	ModeID       uuid.UUID  `json:"mode_id"`
	Date         time.Time  `json:"date"`
	BillNo       string     `json:"bill_no,omitempty"`
	Counterparty string     `json:"counterparty,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TransactionItem is a single line item belonging to exactly one transaction.
// Amounts are in minor currency units and never negative.
type TransactionItem struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Description   string    `json:"description"`
	Amount        int64     `json:"amount"`
}

// NewTransaction creates a transaction header with the given parameters
func NewTransaction(eventID uuid.UUID, subEventID *uuid.UUID, nature Nature, categoryID, modeID uuid.UUID, date time.Time, billNo, counterparty string) (*Transaction, error) {
	if eventID == uuid.Nil {
		return nil, ErrMissingEvent
	}
	if !nature.Valid() {
		return nil, ErrInvalidNature
	}

	now := time.Now()
	return &Transaction{
		ID:           uuid.New(),
		EventID:      eventID,
		SubEventID:   subEventID,
		Nature:       nature,
		CategoryID:   categoryID,
		ModeID:       modeID,
		Date:         date,
		BillNo:       billNo,
		Counterparty: counterparty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewItems builds item rows for a transaction, validating each line.
// A transaction with zero items is legal and totals zero.
func NewItems(transactionID uuid.UUID, lines []ItemInput) ([]TransactionItem, error) {
	items := make([]TransactionItem, 0, len(lines))
	for _, line := range lines {
		if line.Amount < 0 {
			return nil, ErrNegativeAmount
		}
		if line.Description == "" {
			return nil, ErrEmptyItemDesc
		}
		items = append(items, TransactionItem{
			ID:            uuid.New(),
			TransactionID: transactionID,
			Description:   line.Description,
			Amount:        line.Amount,
		})
	}
	return items, nil
}

// ItemInput is a not-yet-persisted transaction line.
type ItemInput struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}
