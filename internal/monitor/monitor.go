// Package monitor evaluates budget utilization against tiered thresholds and
// fans out alerts to an event's managers. The tier is recomputed from scratch
// on every check; the only state kept is the last tier that was announced,
// used to suppress repeat alerts.
package monitor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/domain/notification"
	"github.com/google/uuid"
)

// ExpenseTotaler supplies the current expense total for a scope.
// Satisfied by the aggregation engine.
type ExpenseTotaler interface {
	ExpenseTotal(ctx context.Context, scope ledger.Scope) (int64, error)
}

// Notifier delivers notification payloads best-effort.
// Satisfied by the audit sink.
type Notifier interface {
	Notify(ctx context.Context, payload notification.Payload) bool
}

// TierStore persists the last tier announced per scope.
type TierStore interface {
	LastNotified(ctx context.Context, scope ledger.Scope) (Tier, error)
	SetLastNotified(ctx context.Context, scope ledger.Scope, tier Tier) error
}

// BudgetStatus is the monitor's output for the route layer.
type BudgetStatus struct {
	Monitored bool    `json:"monitored"`
	Allocated int64   `json:"allocated"`
	Spent     int64   `json:"spent"`
	Remaining int64   `json:"remaining"`
	Percent   float64 `json:"percent"`
	Tier      Tier    `json:"tier,omitempty"`
}

// Config controls monitor behavior.
type Config struct {
	// LargeTransactionThreshold in minor currency units.
	LargeTransactionThreshold int64
	// RepeatAlerts disables last-notified-tier suppression.
	RepeatAlerts bool
}

// BudgetMonitor classifies budget consumption and emits threshold alerts.
type BudgetMonitor struct {
	budgets  event.BudgetRepository
	events   event.Repository
	expenses ExpenseTotaler
	tiers    TierStore
	notifier Notifier
	cfg      Config
	logger   *slog.Logger
}

// NewBudgetMonitor creates a budget monitor
func NewBudgetMonitor(
	logger *slog.Logger,
	budgets event.BudgetRepository,
	events event.Repository,
	expenses ExpenseTotaler,
	tiers TierStore,
	notifier Notifier,
	cfg Config,
) *BudgetMonitor {
	return &BudgetMonitor{
		budgets:  budgets,
		events:   events,
		expenses: expenses,
		tiers:    tiers,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// Check recomputes the scope's budget utilization and announces the tier to
// the owning event's managers when it warrants attention. No budget record,
// or a zero allocation, means no monitoring is possible: the returned status
// carries Monitored=false and nothing is emitted.
func (m *BudgetMonitor) Check(ctx context.Context, scope ledger.Scope) (*BudgetStatus, error) {
	status, err := m.Status(ctx, scope)
	if err != nil {
		return nil, err
	}

	if status.Monitored && m.shouldAnnounce(ctx, scope, status.Tier) {
		m.announce(ctx, scope, status)
	}

	return status, nil
}

// Status computes the scope's budget utilization without emitting anything.
// Reports use this; only mutations go through Check.
func (m *BudgetMonitor) Status(ctx context.Context, scope ledger.Scope) (*BudgetStatus, error) {
	budget, err := m.budgets.ByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	if budget == nil || budget.Amount <= 0 {
		return &BudgetStatus{Monitored: false}, nil
	}

	spent, err := m.expenses.ExpenseTotal(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to compute expense total: %w", err)
	}

	bp := UtilizationBasisPoints(spent, budget.Amount)
	tier := ClassifyBasisPoints(bp)

	return &BudgetStatus{
		Monitored: true,
		Allocated: budget.Amount,
		Spent:     spent,
		Remaining: budget.Amount - spent,
		Percent:   float64(bp) / 100,
		Tier:      tier,
	}, nil
}

// shouldAnnounce applies the repeat-suppression policy. With suppression on,
// a tier is announced only when it climbs above the last announced tier; a
// drop lowers the stored tier so the next climb announces again.
func (m *BudgetMonitor) shouldAnnounce(ctx context.Context, scope ledger.Scope, tier Tier) bool {
	if tier == TierNormal {
		// Keep the stored tier in step so a later climb re-announces
		if !m.cfg.RepeatAlerts {
			m.storeTier(ctx, scope, tier)
		}
		return false
	}

	if m.cfg.RepeatAlerts {
		return true
	}

	last, err := m.tiers.LastNotified(ctx, scope)
	if err != nil {
		// Without the stored tier we cannot suppress; favor announcing over
		// silently dropping an alert.
		m.logger.Error("Failed to load last notified tier", "scope_id", scope.ID.String(), "error", err)
		return true
	}

	if tier == last {
		return false
	}

	m.storeTier(ctx, scope, tier)
	return tier.Above(last)
}

func (m *BudgetMonitor) storeTier(ctx context.Context, scope ledger.Scope, tier Tier) {
	if err := m.tiers.SetLastNotified(ctx, scope, tier); err != nil {
		m.logger.Error("Failed to store last notified tier", "scope_id", scope.ID.String(), "error", err)
	}
}

// announce sends exactly one notification to the event manager and one to
// the finance manager of the scope's owning event.
func (m *BudgetMonitor) announce(ctx context.Context, scope ledger.Scope, status *BudgetStatus) {
	owner, err := m.events.OwnerOf(ctx, scope)
	if err != nil {
		m.logger.Error("Failed to resolve owning event for budget alert", "scope_id", scope.ID.String(), "error", err)
		return
	}

	title, message := tierAlertText(owner.Name, status)
	eventID := owner.ID

	for _, userID := range []uuid.UUID{owner.EventManagerID, owner.FinanceManagerID} {
		if userID == uuid.Nil {
			continue
		}
		m.notifier.Notify(ctx, notification.Payload{
			UserID:         userID,
			Title:          title,
			Message:        message,
			Severity:       status.Tier.Severity(),
			RelatedEventID: &eventID,
		})
	}
}

// NotifyLargeTransaction emits a one-off alert to the finance and event
// managers when a single transaction's total reaches the configured
// threshold. The acting user is never notified about their own transaction.
// This check is independent of budget tiers and of whether a budget exists.
func (m *BudgetMonitor) NotifyLargeTransaction(ctx context.Context, actingUser uuid.UUID, txn *ledger.Transaction, total int64) {
	if total < m.cfg.LargeTransactionThreshold {
		return
	}

	owner, err := m.events.GetByID(ctx, txn.EventID)
	if err != nil {
		m.logger.Error("Failed to resolve event for large transaction alert", "event_id", txn.EventID.String(), "error", err)
		return
	}

	message := fmt.Sprintf("Large transaction of %s was created in event %q", FormatAmount(total), owner.Name)
	eventID := owner.ID
	transactionID := txn.ID

	for _, userID := range []uuid.UUID{owner.FinanceManagerID, owner.EventManagerID} {
		if userID == uuid.Nil || userID == actingUser {
			continue
		}
		m.notifier.Notify(ctx, notification.Payload{
			UserID:               userID,
			Title:                "Large Transaction Alert",
			Message:              message,
			Severity:             notification.SeverityWarning,
			RelatedEventID:       &eventID,
			RelatedTransactionID: &transactionID,
		})
	}
}

// tierAlertText renders the alert title and message for a tier
func tierAlertText(eventName string, status *BudgetStatus) (string, string) {
	spent := FormatAmount(status.Spent)
	allocated := FormatAmount(status.Allocated)
	remaining := FormatAmount(status.Remaining)

	switch status.Tier {
	case TierExceeded:
		return "Budget Exceeded",
			fmt.Sprintf("Event %q has exceeded its budget. Spent: %s / Budget: %s (%.1f%%)",
				eventName, spent, allocated, status.Percent)
	case TierCritical:
		return "Budget Alert - 90% Used",
			fmt.Sprintf("Event %q has used 90%% of its budget. Spent: %s / Budget: %s. Remaining: %s",
				eventName, spent, allocated, remaining)
	case TierWarning:
		return "Budget Warning - 75% Used",
			fmt.Sprintf("Event %q has used 75%% of its budget. Spent: %s / Budget: %s. Remaining: %s",
				eventName, spent, allocated, remaining)
	default:
		return "Budget Milestone - 50% Used",
			fmt.Sprintf("Event %q has used half of its budget. Spent: %s / Budget: %s. Remaining: %s",
				eventName, spent, allocated, remaining)
	}
}

// FormatAmount renders minor currency units as a two-decimal figure
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
