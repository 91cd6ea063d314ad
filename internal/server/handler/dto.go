package handler

import (
	"time"

	"github.com/finsight-event-ledger/internal/domain/ledger"
)

// ItemRequest represents one line item in a transaction request
type ItemRequest struct {
	Description string `json:"description" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,min=0"`
}

// CreateTransactionRequest represents a request to record a new transaction
type CreateTransactionRequest struct {
	EventID      string        `json:"event_id" binding:"required,uuid"`
	SubEventID   string        `json:"sub_event_id,omitempty" binding:"omitempty,uuid"`
	Nature       string        `json:"nature" binding:"required,oneof=revenue expense"`
	CategoryID   string        `json:"category_id" binding:"required,uuid"`
	ModeID       string        `json:"mode_id" binding:"required,uuid"`
	Date         string        `json:"date" binding:"required"`
	BillNo       string        `json:"bill_no,omitempty"`
	Counterparty string        `json:"counterparty,omitempty"`
	Items        []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateTransactionRequest represents a request to rewrite a transaction.
// The item list replaces the existing items entirely.
type UpdateTransactionRequest struct {
	Nature       string        `json:"nature" binding:"required,oneof=revenue expense"`
	CategoryID   string        `json:"category_id" binding:"required,uuid"`
	ModeID       string        `json:"mode_id" binding:"required,uuid"`
	Date         string        `json:"date" binding:"required"`
	BillNo       string        `json:"bill_no,omitempty"`
	Counterparty string        `json:"counterparty,omitempty"`
	Items        []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ItemResponse represents one line item in API responses
type ItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID           string         `json:"id"`
	EventID      string         `json:"event_id"`
	SubEventID   string         `json:"sub_event_id,omitempty"`
	Nature       string         `json:"nature"`
	CategoryID   string         `json:"category_id"`
	ModeID       string         `json:"mode_id"`
	Date         string         `json:"date"`
	BillNo       string         `json:"bill_no,omitempty"`
	Counterparty string         `json:"counterparty,omitempty"`
	Total        int64          `json:"total"`
	Items        []ItemResponse `json:"items,omitempty"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

func mapTransactionToResponse(txn *ledger.Transaction, items []ledger.TransactionItem) TransactionResponse {
	resp := TransactionResponse{
		ID:           txn.ID.String(),
		EventID:      txn.EventID.String(),
		Nature:       string(txn.Nature),
		CategoryID:   txn.CategoryID.String(),
		ModeID:       txn.ModeID.String(),
		Date:         txn.Date.Format("2006-01-02"),
		BillNo:       txn.BillNo,
		Counterparty: txn.Counterparty,
		CreatedAt:    txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    txn.UpdatedAt.Format(time.RFC3339),
	}
	if txn.SubEventID != nil {
		resp.SubEventID = txn.SubEventID.String()
	}
	for _, item := range items {
		resp.Total += item.Amount
		resp.Items = append(resp.Items, ItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Amount:      item.Amount,
		})
	}
	return resp
}
