package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finsight-event-ledger/internal/aggregation"
	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/monitor"
)

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	agg     Aggregator
	monitor BudgetChecker
	events  event.Repository
	logger  *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(logger *slog.Logger, agg Aggregator, monitor BudgetChecker, events event.Repository) ReportService {
	return &ReportServiceImpl{
		agg:     agg,
		monitor: monitor,
		events:  events,
		logger:  logger,
	}
}

// BudgetOverview reports allocated, spent, remaining, percentage and tier
// for a scope. It is a passive read: no alerts are emitted.
func (s *ReportServiceImpl) BudgetOverview(ctx context.Context, scope ledger.Scope) (*monitor.BudgetStatus, error) {
	return s.monitor.Status(ctx, scope)
}

// EventSummary rolls a scope up into revenue/expense totals and labeled
// category and mode breakdowns.
func (s *ReportServiceImpl) EventSummary(ctx context.Context, scope ledger.Scope) (*EventSummary, error) {
	revenue, err := s.agg.RevenueTotal(ctx, scope)
	if err != nil {
		return nil, err
	}
	expense, err := s.agg.ExpenseTotal(ctx, scope)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.agg.CategoryBreakdown(ctx, scope)
	if err != nil {
		return nil, err
	}
	byMode, err := s.agg.ModeBreakdown(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &EventSummary{
		Revenue:    revenue,
		Expense:    expense,
		Net:        revenue - expense,
		ByCategory: byCategory,
		ByMode:     byMode,
	}, nil
}

// Dashboard groups every event and sub-event into Upcoming, Ongoing and
// Completed buckets relative to today.
func (s *ReportServiceImpl) Dashboard(ctx context.Context) (map[event.Status][]aggregation.StatusEntry, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var subEvents []*event.SubEvent
	for _, ev := range events {
		children, err := s.events.ListSubEvents(ctx, ev.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list sub-events: %w", err)
		}
		subEvents = append(subEvents, children...)
	}

	return aggregation.GroupedByStatus(events, subEvents, time.Now()), nil
}
