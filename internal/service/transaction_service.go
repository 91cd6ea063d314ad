package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finsight-event-ledger/internal/audit"
	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	txRunner TxRunner
	txns     ledger.Repository
	agg      Aggregator
	monitor  BudgetChecker
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	logger *slog.Logger,
	txRunner TxRunner,
	txns ledger.Repository,
	agg Aggregator,
	monitor BudgetChecker,
	activity ActivityRecorder,
) TransactionService {
	return &TransactionServiceImpl{
		txRunner: txRunner,
		txns:     txns,
		agg:      agg,
		monitor:  monitor,
		activity: activity,
		logger:   logger,
	}
}

// Create records a transaction header together with its items as one unit.
// The budget monitor and audit trail run only after a successful commit and
// can never fail the creation.
func (s *TransactionServiceImpl) Create(ctx context.Context, actor Actor, input CreateTransactionInput) (*ledger.Transaction, error) {
	txn, err := ledger.NewTransaction(input.EventID, input.SubEventID, input.Nature, input.CategoryID, input.ModeID, input.Date, input.BillNo, input.Counterparty)
	if err != nil {
		return nil, err
	}

	items, err := ledger.NewItems(txn.ID, input.Items)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.txns.WithTx(tx)
		if err := repo.Create(ctx, txn); err != nil {
			return err
		}
		return repo.InsertItems(ctx, items)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.afterCommit(ctx, actor, txn, "created")

	return txn, nil
}

// Update rewrites a transaction's header fields and replaces its item set
// entirely: all prior items are deleted and the new set inserted, in the
// same database transaction as the header write.
func (s *TransactionServiceImpl) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateTransactionInput) (*ledger.Transaction, error) {
	txn, err := s.txns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !input.Nature.Valid() {
		return nil, ledger.ErrInvalidNature
	}
	items, err := ledger.NewItems(txn.ID, input.Items)
	if err != nil {
		return nil, err
	}

	txn.Nature = input.Nature
	txn.CategoryID = input.CategoryID
	txn.ModeID = input.ModeID
	txn.Date = input.Date
	txn.BillNo = input.BillNo
	txn.Counterparty = input.Counterparty
	txn.UpdatedAt = time.Now()

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.txns.WithTx(tx)
		if err := repo.Update(ctx, txn); err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, txn.ID); err != nil {
			return err
		}
		return repo.InsertItems(ctx, items)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.afterCommit(ctx, actor, txn, "updated")

	return txn, nil
}

// Delete removes a transaction and its items as one unit, then re-evaluates
// the affected budget so the scope's aggregates drop its contribution.
func (s *TransactionServiceImpl) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	txn, err := s.txns.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.txns.WithTx(tx)
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.recheckBudget(ctx, txn)
	s.activity.RecordActivity(ctx, audit.Activity{
		UserID:      actor.UserID,
		Action:      "deleted",
		EntityType:  "Transaction",
		EntityID:    txn.ID,
		Description: fmt.Sprintf("Deleted %s transaction %s", txn.Nature, txn.ID),
		IPAddress:   actor.IPAddress,
	})

	return nil
}

// Get retrieves a transaction header with its items
func (s *TransactionServiceImpl) Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, []ledger.TransactionItem, error) {
	txn, err := s.txns.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.txns.ItemsByTransaction(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return txn, items, nil
}

// ListByScope retrieves all transactions for an event or sub-event
func (s *TransactionServiceImpl) ListByScope(ctx context.Context, scope ledger.Scope) ([]*ledger.Transaction, error) {
	return s.txns.ListByScope(ctx, scope)
}

// afterCommit runs the best-effort side effects of a successful write:
// budget re-check, large-transaction alert and audit entry. Failures here
// are logged and swallowed; the primary mutation has already succeeded.
func (s *TransactionServiceImpl) afterCommit(ctx context.Context, actor Actor, txn *ledger.Transaction, action string) {
	s.recheckBudget(ctx, txn)

	total, err := s.agg.TotalFor(ctx, []uuid.UUID{txn.ID})
	if err != nil {
		s.logger.Error("Failed to compute transaction total for alerting", "transaction_id", txn.ID.String(), "error", err)
	} else {
		s.monitor.NotifyLargeTransaction(ctx, actor.UserID, txn, total)
	}

	s.activity.RecordActivity(ctx, audit.Activity{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "Transaction",
		EntityID:    txn.ID,
		Description: fmt.Sprintf("%s %s transaction %s", capitalize(action), txn.Nature, txn.ID),
		IPAddress:   actor.IPAddress,
	})
}

// recheckBudget re-evaluates the budget of every scope the transaction
// belongs to: its sub-event, if any, and always its owning event.
func (s *TransactionServiceImpl) recheckBudget(ctx context.Context, txn *ledger.Transaction) {
	if txn.SubEventID != nil {
		if _, err := s.monitor.Check(ctx, ledger.SubEventScope(*txn.SubEventID)); err != nil {
			s.logger.Error("Budget check failed", "sub_event_id", txn.SubEventID.String(), "error", err)
		}
	}
	if _, err := s.monitor.Check(ctx, ledger.EventScope(txn.EventID)); err != nil {
		s.logger.Error("Budget check failed", "event_id", txn.EventID.String(), "error", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
