package monitor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Create(ctx context.Context, budget *event.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) ByScope(ctx context.Context, scope ledger.Scope) (*event.Budget, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Budget), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetSubEvent(ctx context.Context, id uuid.UUID) (*event.SubEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.SubEvent), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]*event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]*event.SubEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.SubEvent), args.Error(1)
}

func (m *MockEventRepository) OwnerOf(ctx context.Context, scope ledger.Scope) (*event.Event, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

type MockExpenseTotaler struct {
	mock.Mock
}

func (m *MockExpenseTotaler) ExpenseTotal(ctx context.Context, scope ledger.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

type MockTierStore struct {
	mock.Mock
}

func (m *MockTierStore) LastNotified(ctx context.Context, scope ledger.Scope) (Tier, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(Tier), args.Error(1)
}

func (m *MockTierStore) SetLastNotified(ctx context.Context, scope ledger.Scope, tier Tier) error {
	args := m.Called(ctx, scope, tier)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, payload notification.Payload) bool {
	args := m.Called(ctx, payload)
	return args.Bool(0)
}

func testMonitor(budgets *MockBudgetRepository, events *MockEventRepository, expenses *MockExpenseTotaler, tiers *MockTierStore, notifier *MockNotifier, cfg Config) *BudgetMonitor {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return NewBudgetMonitor(logger, budgets, events, expenses, tiers, notifier, cfg)
}

func testEvent() *event.Event {
	return &event.Event{
		ID:               uuid.New(),
		Name:             "Tech Fest",
		Date:             time.Now(),
		Days:             2,
		EventManagerID:   uuid.New(),
		FinanceManagerID: uuid.New(),
	}
}

func TestBudgetMonitor_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("HalfUsedNotifiesBothManagers", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{LargeTransactionThreshold: 1000000})

		owner := testEvent()
		scope := ledger.EventScope(owner.ID)

		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 10000}, nil).Once()
		expenses.On("ExpenseTotal", ctx, scope).Return(int64(5000), nil).Once()
		tiers.On("LastNotified", ctx, scope).Return(TierNormal, nil).Once()
		tiers.On("SetLastNotified", ctx, scope, TierHalfUsed).Return(nil).Once()
		events.On("OwnerOf", ctx, scope).Return(owner, nil).Once()
		notifier.On("Notify", ctx, mock.MatchedBy(func(p notification.Payload) bool {
			return p.UserID == owner.EventManagerID && p.Severity == notification.SeverityInfo
		})).Return(true).Once()
		notifier.On("Notify", ctx, mock.MatchedBy(func(p notification.Payload) bool {
			return p.UserID == owner.FinanceManagerID && p.Severity == notification.SeverityInfo
		})).Return(true).Once()

		status, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		assert.True(t, status.Monitored)
		assert.Equal(t, TierHalfUsed, status.Tier)
		assert.Equal(t, int64(5000), status.Remaining)
		assert.InDelta(t, 50.0, status.Percent, 0.001)
		notifier.AssertNumberOfCalls(t, "Notify", 2)
		budgets.AssertExpectations(t)
		tiers.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("NoBudgetMeansNotMonitored", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{})

		scope := ledger.EventScope(uuid.New())
		budgets.On("ByScope", ctx, scope).Return(nil, nil).Once()

		status, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		assert.False(t, status.Monitored)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		expenses.AssertNotCalled(t, "ExpenseTotal", mock.Anything, mock.Anything)
	})

	t.Run("ZeroAllocationMeansNotMonitored", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{})

		scope := ledger.EventScope(uuid.New())
		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 0}, nil).Once()

		status, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		assert.False(t, status.Monitored)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("SameTierIsSuppressed", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{})

		scope := ledger.EventScope(uuid.New())
		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 10000}, nil).Once()
		expenses.On("ExpenseTotal", ctx, scope).Return(int64(6000), nil).Once()
		tiers.On("LastNotified", ctx, scope).Return(TierHalfUsed, nil).Once()

		status, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		assert.Equal(t, TierHalfUsed, status.Tier)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("RepeatAlertsDisablesSuppression", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{RepeatAlerts: true})

		owner := testEvent()
		scope := ledger.EventScope(owner.ID)
		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 10000}, nil).Once()
		expenses.On("ExpenseTotal", ctx, scope).Return(int64(6000), nil).Once()
		events.On("OwnerOf", ctx, scope).Return(owner, nil).Once()
		notifier.On("Notify", ctx, mock.Anything).Return(true).Twice()

		_, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		notifier.AssertNumberOfCalls(t, "Notify", 2)
		tiers.AssertNotCalled(t, "LastNotified", mock.Anything, mock.Anything)
	})

	t.Run("TierDropLowersStoredTierWithoutAlert", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{})

		scope := ledger.EventScope(uuid.New())
		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 10000}, nil).Once()
		expenses.On("ExpenseTotal", ctx, scope).Return(int64(6000), nil).Once()
		tiers.On("LastNotified", ctx, scope).Return(TierWarning, nil).Once()
		tiers.On("SetLastNotified", ctx, scope, TierHalfUsed).Return(nil).Once()

		_, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		tiers.AssertExpectations(t)
	})

	t.Run("TierStoreFailureFavorsAnnouncing", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{})

		owner := testEvent()
		scope := ledger.EventScope(owner.ID)
		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 10000}, nil).Once()
		expenses.On("ExpenseTotal", ctx, scope).Return(int64(9500), nil).Once()
		tiers.On("LastNotified", ctx, scope).Return(TierNormal, errors.New("connection reset")).Once()
		events.On("OwnerOf", ctx, scope).Return(owner, nil).Once()
		notifier.On("Notify", ctx, mock.Anything).Return(true).Twice()

		_, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		notifier.AssertNumberOfCalls(t, "Notify", 2)
	})

	t.Run("ExceededTierCarriesDangerSeverity", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{})

		owner := testEvent()
		scope := ledger.SubEventScope(uuid.New())
		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 10000}, nil).Once()
		expenses.On("ExpenseTotal", ctx, scope).Return(int64(10000), nil).Once()
		tiers.On("LastNotified", ctx, scope).Return(TierCritical, nil).Once()
		tiers.On("SetLastNotified", ctx, scope, TierExceeded).Return(nil).Once()
		events.On("OwnerOf", ctx, scope).Return(owner, nil).Once()
		notifier.On("Notify", ctx, mock.MatchedBy(func(p notification.Payload) bool {
			return p.Severity == notification.SeverityDanger && p.Title == "Budget Exceeded"
		})).Return(true).Twice()

		status, err := m.Check(ctx, scope)

		assert.NoError(t, err)
		assert.Equal(t, TierExceeded, status.Tier)
		notifier.AssertExpectations(t)
	})
}

func TestBudgetMonitor_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("NeverNotifies", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{RepeatAlerts: true})

		scope := ledger.EventScope(uuid.New())
		budgets.On("ByScope", ctx, scope).Return(&event.Budget{Amount: 10000}, nil).Once()
		expenses.On("ExpenseTotal", ctx, scope).Return(int64(12000), nil).Once()

		status, err := m.Status(ctx, scope)

		assert.NoError(t, err)
		assert.Equal(t, TierExceeded, status.Tier)
		assert.Equal(t, int64(-2000), status.Remaining)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		tiers.AssertNotCalled(t, "SetLastNotified", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BudgetLoadFailure", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, Config{})

		scope := ledger.EventScope(uuid.New())
		budgets.On("ByScope", ctx, scope).Return(nil, errors.New("db down")).Once()

		status, err := m.Status(ctx, scope)

		assert.Error(t, err)
		assert.Nil(t, status)
	})
}

func TestBudgetMonitor_NotifyLargeTransaction(t *testing.T) {
	ctx := context.Background()
	cfg := Config{LargeTransactionThreshold: 1000000}

	t.Run("BelowThresholdIsSilent", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, cfg)

		txn := &ledger.Transaction{ID: uuid.New(), EventID: uuid.New()}
		m.NotifyLargeTransaction(ctx, uuid.New(), txn, 300000)

		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		events.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("AtThresholdNotifiesManagers", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, cfg)

		owner := testEvent()
		txn := &ledger.Transaction{ID: uuid.New(), EventID: owner.ID}
		events.On("GetByID", ctx, owner.ID).Return(owner, nil).Once()
		notifier.On("Notify", ctx, mock.MatchedBy(func(p notification.Payload) bool {
			return p.Title == "Large Transaction Alert" &&
				p.Severity == notification.SeverityWarning &&
				p.RelatedTransactionID != nil && *p.RelatedTransactionID == txn.ID
		})).Return(true).Twice()

		m.NotifyLargeTransaction(ctx, uuid.New(), txn, 1200000)

		notifier.AssertNumberOfCalls(t, "Notify", 2)
	})

	t.Run("ActingUserIsNeverNotified", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		events := new(MockEventRepository)
		expenses := new(MockExpenseTotaler)
		tiers := new(MockTierStore)
		notifier := new(MockNotifier)
		m := testMonitor(budgets, events, expenses, tiers, notifier, cfg)

		owner := testEvent()
		txn := &ledger.Transaction{ID: uuid.New(), EventID: owner.ID}
		events.On("GetByID", ctx, owner.ID).Return(owner, nil).Once()
		notifier.On("Notify", ctx, mock.MatchedBy(func(p notification.Payload) bool {
			return p.UserID == owner.EventManagerID
		})).Return(true).Once()

		m.NotifyLargeTransaction(ctx, owner.FinanceManagerID, txn, 1000000)

		notifier.AssertNumberOfCalls(t, "Notify", 1)
		notifier.AssertExpectations(t)
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100.00", FormatAmount(10000))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "-20.50", FormatAmount(-2050))
	assert.Equal(t, "0.00", FormatAmount(0))
}
