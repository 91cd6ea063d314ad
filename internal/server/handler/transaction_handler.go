package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/finsight-event-ledger/internal/domain/ledger"
	"github.com/finsight-event-ledger/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Create records a new transaction with its items
func (h *TransactionHandler) Create(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		RespondBadRequest(c, "Invalid event ID")
		return
	}
	var subEventID *uuid.UUID
	if req.SubEventID != "" {
		id, err := uuid.Parse(req.SubEventID)
		if err != nil {
			RespondBadRequest(c, "Invalid sub-event ID")
			return
		}
		subEventID = &id
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		RespondBadRequest(c, "Invalid category ID")
		return
	}
	modeID, err := uuid.Parse(req.ModeID)
	if err != nil {
		RespondBadRequest(c, "Invalid payment mode ID")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	input := service.CreateTransactionInput{
		EventID:      eventID,
		SubEventID:   subEventID,
		Nature:       ledger.Nature(req.Nature),
		CategoryID:   categoryID,
		ModeID:       modeID,
		Date:         date,
		BillNo:       req.BillNo,
		Counterparty: req.Counterparty,
		Items:        mapItemRequests(req.Items),
	}

	txn, err := h.transactionService.Create(c.Request.Context(), actor, input)
	if err != nil {
		if isValidationError(err) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn, nil))
}

// Update rewrites a transaction's header and replaces its items
func (h *TransactionHandler) Update(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		RespondBadRequest(c, "Invalid category ID")
		return
	}
	modeID, err := uuid.Parse(req.ModeID)
	if err != nil {
		RespondBadRequest(c, "Invalid payment mode ID")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	input := service.UpdateTransactionInput{
		Nature:       ledger.Nature(req.Nature),
		CategoryID:   categoryID,
		ModeID:       modeID,
		Date:         date,
		BillNo:       req.BillNo,
		Counterparty: req.Counterparty,
		Items:        mapItemRequests(req.Items),
	}

	txn, err := h.transactionService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		if isValidationError(err) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to update transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn, nil))
}

// Delete removes a transaction and its items
func (h *TransactionHandler) Delete(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), actor, id); err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to delete transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// GetByID retrieves a transaction with its items, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, items, err := h.transactionService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn, items))
}

// List retrieves all transactions for an event or sub-event scope
func (h *TransactionHandler) List(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	txns, err := h.transactionService.ListByScope(c.Request.Context(), scope)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	response := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txns))}
	for _, txn := range txns {
		response.Transactions = append(response.Transactions, mapTransactionToResponse(txn, nil))
	}
	RespondOK(c, response)
}

func mapItemRequests(items []ItemRequest) []ledger.ItemInput {
	inputs := make([]ledger.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, ledger.ItemInput{Description: item.Description, Amount: item.Amount})
	}
	return inputs
}

func isValidationError(err error) bool {
	return errors.Is(err, ledger.ErrMissingEvent) ||
		errors.Is(err, ledger.ErrInvalidNature) ||
		errors.Is(err, ledger.ErrNegativeAmount) ||
		errors.Is(err, ledger.ErrEmptyItemDesc)
}
