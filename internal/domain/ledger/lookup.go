package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category is reference data naming a transaction category.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentMode is reference data naming how money moved.
type PaymentMode struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Lookup resolves category and mode identifiers to display names.
// Callers are expected to degrade a failed resolution to a sentinel label
// rather than failing an aggregation.
type Lookup interface {
	CategoryName(ctx context.Context, id uuid.UUID) (string, error)
	ModeName(ctx context.Context, id uuid.UUID) (string, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListModes(ctx context.Context) ([]PaymentMode, error)
}

// ErrCategoryNotFound indicates unknown category reference data
type ErrCategoryNotFound struct {
	CategoryID uuid.UUID
}

func (e ErrCategoryNotFound) Error() string {
	return "category not found: " + e.CategoryID.String()
}

// Is implements the errors.Is interface for ErrCategoryNotFound
func (e ErrCategoryNotFound) Is(target error) bool {
	t, ok := target.(ErrCategoryNotFound)
	if !ok {
		return false
	}
	if t.CategoryID == uuid.Nil {
		return true
	}
	return e.CategoryID == t.CategoryID
}

// ErrModeNotFound indicates unknown payment mode reference data
type ErrModeNotFound struct {
	ModeID uuid.UUID
}

func (e ErrModeNotFound) Error() string {
	return "payment mode not found: " + e.ModeID.String()
}

// Is implements the errors.Is interface for ErrModeNotFound
func (e ErrModeNotFound) Is(target error) bool {
	t, ok := target.(ErrModeNotFound)
	if !ok {
		return false
	}
	if t.ModeID == uuid.Nil {
		return true
	}
	return e.ModeID == t.ModeID
}
