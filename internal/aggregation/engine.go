// Package aggregation computes revenue and expense totals over the ledger,
// sliced by nature, category, payment mode, and event status. It is the
// single place transaction amounts are derived from item rows; every other
// component consumes its output.
//
// All operations are read-only and safe for concurrent use. A store failure
// surfaces as an empty result plus an error the caller may treat as
// recoverable; a missing lookup name degrades to a sentinel label instead.
package aggregation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// Sentinel labels used when reference data cannot be resolved
const (
	UnknownCategory = "Unknown Category"
	UnknownMode     = "Unknown Mode"
)

// LabeledTotal maps one category or payment mode to its total amount.
type LabeledTotal struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Total int64     `json:"total"`
}

// StatusEntry is one event or sub-event placed in a status group.
type StatusEntry struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Date     time.Time    `json:"date"`
	Status   event.Status `json:"status"`
	SubEvent bool         `json:"sub_event"`
}

// Engine computes ledger aggregates for an event or sub-event scope.
type Engine struct {
	txns   ledger.Repository
	lookup ledger.Lookup
	logger *slog.Logger
}

// NewEngine creates an aggregation engine over the given ledger store
func NewEngine(logger *slog.Logger, txns ledger.Repository, lookup ledger.Lookup) *Engine {
	return &Engine{
		txns:   txns,
		lookup: lookup,
		logger: logger,
	}
}

// TransactionIDs returns the identifiers of the scope's transactions that
// match every supplied filter field. Omitted fields match everything.
func (e *Engine) TransactionIDs(ctx context.Context, scope ledger.Scope, filter ledger.Filter) ([]uuid.UUID, error) {
	ids, err := e.txns.IDsByScope(ctx, scope, filter)
	if err != nil {
		e.logger.Error("Failed to fetch transaction ids", "scope_id", scope.ID.String(), "error", err)
		return nil, fmt.Errorf("failed to fetch transaction ids: %w", err)
	}
	return ids, nil
}

// TotalFor sums the item amounts of every transaction in the id set.
// This is the canonical amount computation: a transaction's value exists
// nowhere else. An empty set totals zero.
func (e *Engine) TotalFor(ctx context.Context, transactionIDs []uuid.UUID) (int64, error) {
	if len(transactionIDs) == 0 {
		return 0, nil
	}

	items, err := e.txns.ItemsByTransactions(ctx, transactionIDs)
	if err != nil {
		e.logger.Error("Failed to fetch transaction items", "error", err)
		return 0, fmt.Errorf("failed to fetch transaction items: %w", err)
	}

	var total int64
	for _, item := range items {
		total += item.Amount
	}
	return total, nil
}

// RevenueTotal computes the scope's total over revenue transactions
func (e *Engine) RevenueTotal(ctx context.Context, scope ledger.Scope) (int64, error) {
	return e.totalByFilter(ctx, scope, ledger.ByNature(ledger.NatureRevenue))
}

// ExpenseTotal computes the scope's total over expense transactions
func (e *Engine) ExpenseTotal(ctx context.Context, scope ledger.Scope) (int64, error) {
	return e.totalByFilter(ctx, scope, ledger.ByNature(ledger.NatureExpense))
}

// CategoryTotal computes the scope's total over one transaction category
func (e *Engine) CategoryTotal(ctx context.Context, scope ledger.Scope, categoryID uuid.UUID) (int64, error) {
	return e.totalByFilter(ctx, scope, ledger.ByCategory(categoryID))
}

// ModeTotal computes the scope's total over one payment mode
func (e *Engine) ModeTotal(ctx context.Context, scope ledger.Scope, modeID uuid.UUID) (int64, error) {
	return e.totalByFilter(ctx, scope, ledger.ByMode(modeID))
}

func (e *Engine) totalByFilter(ctx context.Context, scope ledger.Scope, filter ledger.Filter) (int64, error) {
	ids, err := e.TransactionIDs(ctx, scope, filter)
	if err != nil {
		return 0, err
	}
	return e.TotalFor(ctx, ids)
}

// CategoryBreakdown totals the scope per transaction category. A category
// whose name cannot be resolved is labeled with the sentinel instead of
// failing the breakdown.
func (e *Engine) CategoryBreakdown(ctx context.Context, scope ledger.Scope) ([]LabeledTotal, error) {
	categories, err := e.lookup.ListCategories(ctx)
	if err != nil {
		e.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	breakdown := make([]LabeledTotal, 0, len(categories))
	for _, c := range categories {
		total, err := e.CategoryTotal(ctx, scope, c.ID)
		if err != nil {
			return nil, err
		}

		label, err := e.lookup.CategoryName(ctx, c.ID)
		if err != nil {
			label = UnknownCategory
		}
		breakdown = append(breakdown, LabeledTotal{ID: c.ID, Label: label, Total: total})
	}
	return breakdown, nil
}

// ModeBreakdown totals the scope per payment mode, with the same sentinel
// degradation as CategoryBreakdown.
func (e *Engine) ModeBreakdown(ctx context.Context, scope ledger.Scope) ([]LabeledTotal, error) {
	modes, err := e.lookup.ListModes(ctx)
	if err != nil {
		e.logger.Error("Failed to list payment modes", "error", err)
		return nil, fmt.Errorf("failed to list payment modes: %w", err)
	}

	breakdown := make([]LabeledTotal, 0, len(modes))
	for _, m := range modes {
		total, err := e.ModeTotal(ctx, scope, m.ID)
		if err != nil {
			return nil, err
		}

		label, err := e.lookup.ModeName(ctx, m.ID)
		if err != nil {
			label = UnknownMode
		}
		breakdown = append(breakdown, LabeledTotal{ID: m.ID, Label: label, Total: total})
	}
	return breakdown, nil
}

// GroupedByStatus classifies events and sub-events into Upcoming, Ongoing and
// Completed by comparing their dates to today. Classification is exhaustive
// and mutually exclusive: every entry lands in exactly one group.
func GroupedByStatus(events []*event.Event, subEvents []*event.SubEvent, today time.Time) map[event.Status][]StatusEntry {
	grouped := make(map[event.Status][]StatusEntry)

	for _, ev := range events {
		status := event.ClassifyDate(ev.Date, today)
		grouped[status] = append(grouped[status], StatusEntry{
			ID:     ev.ID,
			Name:   ev.Name,
			Date:   ev.Date,
			Status: status,
		})
	}
	for _, se := range subEvents {
		status := event.ClassifyDate(se.Date, today)
		grouped[status] = append(grouped[status], StatusEntry{
			ID:       se.ID,
			Name:     se.Name,
			Date:     se.Date,
			Status:   status,
			SubEvent: true,
		})
	}

	return grouped
}
