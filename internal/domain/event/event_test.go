package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDate(t *testing.T) {
	today := time.Date(2025, 6, 15, 14, 30, 45, 0, time.UTC)

	testCases := []struct {
		name      string
		eventDate time.Time
		expected  Status
	}{
		{"FutureDate", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), StatusUpcoming},
		{"FarFuture", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), StatusUpcoming},
		{"SameDayEarlierTime", time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC), StatusOngoing},
		{"SameDayLaterTime", time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC), StatusOngoing},
		{"Yesterday", time.Date(2025, 6, 14, 23, 59, 59, 0, time.UTC), StatusCompleted},
		{"FarPast", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), StatusCompleted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyDate(tc.eventDate, today))
		})
	}
}

func TestNewBudget(t *testing.T) {
	t.Run("EventBudget", func(t *testing.T) {
		eventID := uuid.New()

		budget, err := NewBudget(&eventID, nil, 500000, "venue and catering")

		require.NoError(t, err)
		require.NotNil(t, budget.EventID)
		assert.Equal(t, eventID, *budget.EventID)
		assert.Nil(t, budget.SubEventID)
		assert.Equal(t, int64(500000), budget.Amount)
	})

	t.Run("SubEventBudget", func(t *testing.T) {
		subEventID := uuid.New()

		budget, err := NewBudget(nil, &subEventID, 100000, "")

		require.NoError(t, err)
		assert.Nil(t, budget.EventID)
		require.NotNil(t, budget.SubEventID)
		assert.Equal(t, subEventID, *budget.SubEventID)
	})

	t.Run("BothScopesRejected", func(t *testing.T) {
		eventID := uuid.New()
		subEventID := uuid.New()

		_, err := NewBudget(&eventID, &subEventID, 100000, "")

		assert.ErrorIs(t, err, ErrBudgetScope)
	})

	t.Run("NeitherScopeRejected", func(t *testing.T) {
		_, err := NewBudget(nil, nil, 100000, "")
		assert.ErrorIs(t, err, ErrBudgetScope)
	})

	t.Run("NegativeAmountRejected", func(t *testing.T) {
		eventID := uuid.New()
		_, err := NewBudget(&eventID, nil, -1, "")
		assert.ErrorIs(t, err, ErrInvalidAllocation)
	})
}
