// Package service orchestrates the engine's state-changing operations:
// transaction writes commit as one unit, then the budget monitor and audit
// sink run as best-effort side effects outside the commit boundary.
package service

import (
	"context"
	"time"

	"github.com/finsight-event-ledger/internal/aggregation"
	"github.com/finsight-event-ledger/internal/audit"
	"github.com/finsight-event-ledger/internal/domain/event"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/monitor"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Actor identifies the user performing a state-changing operation.
type Actor struct {
	UserID    uuid.UUID
	IPAddress string
}

// CreateTransactionInput carries everything needed to record a transaction
// with its items.
type CreateTransactionInput struct {
	EventID      uuid.UUID
	SubEventID   *uuid.UUID
	Nature       ledger.Nature
	CategoryID   uuid.UUID
	ModeID       uuid.UUID
	Date         time.Time
	BillNo       string
	Counterparty string
	Items        []ledger.ItemInput
}

// UpdateTransactionInput rewrites a transaction's header fields and replaces
// its item set entirely.
type UpdateTransactionInput struct {
	Nature       ledger.Nature
	CategoryID   uuid.UUID
	ModeID       uuid.UUID
	Date         time.Time
	BillNo       string
	Counterparty string
	Items        []ledger.ItemInput
}

// TransactionService is the engine's mutation surface for the route layer
type TransactionService interface {
	Create(ctx context.Context, actor Actor, input CreateTransactionInput) (*ledger.Transaction, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateTransactionInput) (*ledger.Transaction, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, []ledger.TransactionItem, error)
	ListByScope(ctx context.Context, scope ledger.Scope) ([]*ledger.Transaction, error)
}

// EventSummary is the report assembler's per-scope rollup.
type EventSummary struct {
	Revenue    int64                     `json:"revenue"`
	Expense    int64                     `json:"expense"`
	Net        int64                     `json:"net"`
	ByCategory []aggregation.LabeledTotal `json:"by_category"`
	ByMode     []aggregation.LabeledTotal `json:"by_mode"`
}

// ReportService assembles aggregation output into chart-ready structures
type ReportService interface {
	BudgetOverview(ctx context.Context, scope ledger.Scope) (*monitor.BudgetStatus, error)
	EventSummary(ctx context.Context, scope ledger.Scope) (*EventSummary, error)
	Dashboard(ctx context.Context) (map[event.Status][]aggregation.StatusEntry, error)
}

// TxRunner runs a function inside one database transaction.
// Satisfied by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// BudgetChecker re-evaluates a scope's budget tier and emits alerts.
// Satisfied by monitor.BudgetMonitor.
type BudgetChecker interface {
	Check(ctx context.Context, scope ledger.Scope) (*monitor.BudgetStatus, error)
	Status(ctx context.Context, scope ledger.Scope) (*monitor.BudgetStatus, error)
	NotifyLargeTransaction(ctx context.Context, actingUser uuid.UUID, txn *ledger.Transaction, total int64)
}

// Aggregator is the slice of the aggregation engine the services consume.
type Aggregator interface {
	TotalFor(ctx context.Context, transactionIDs []uuid.UUID) (int64, error)
	RevenueTotal(ctx context.Context, scope ledger.Scope) (int64, error)
	ExpenseTotal(ctx context.Context, scope ledger.Scope) (int64, error)
	CategoryBreakdown(ctx context.Context, scope ledger.Scope) ([]aggregation.LabeledTotal, error)
	ModeBreakdown(ctx context.Context, scope ledger.Scope) ([]aggregation.LabeledTotal, error)
}

// ActivityRecorder appends audit entries best-effort.
// Satisfied by audit.Sink.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, activity audit.Activity) bool
}
