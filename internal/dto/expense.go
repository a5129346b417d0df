package dto

import (
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitTargetRequest names one participant in a split. Amount is required for
// EXACT splits, Percent for PERCENTAGE splits.
type SplitTargetRequest struct {
	UserID  string           `json:"userID" binding:"required"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

// ItemRequest is one line item of an itemized expense.
type ItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	AssigneeIDs []string        `json:"assigneeIDs"`
}

// CreateExpenseRequest records an expense and posts its split transfers.
type CreateExpenseRequest struct {
	PayerID        string               `json:"payerID" binding:"required"`
	Total          decimal.Decimal      `json:"total" binding:"required"`
	CurrencyCode   string               `json:"currencyCode" binding:"required,len=3"`
	SplitPolicy    string               `json:"splitPolicy" binding:"required,oneof=EQUAL EXACT PERCENTAGE ITEM"`
	ParticipantIDs []string             `json:"participantIDs"`
	Targets        []SplitTargetRequest `json:"targets,omitempty"`
	Items          []ItemRequest        `json:"items,omitempty"`
	Category       string               `json:"category,omitempty"`
	Description    string               `json:"description,omitempty"`
}

// ItemResponse is the API representation of one expense item.
type ItemResponse struct {
	ItemID      string          `json:"itemID"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	AssigneeIDs []string        `json:"assigneeIDs,omitempty"`
}

// ExpenseResponse is the API representation of a recorded expense.
type ExpenseResponse struct {
	ExpenseID    string             `json:"expenseID"`
	SourceID     string             `json:"sourceID"`
	PayerID      string             `json:"payerID"`
	Total        decimal.Decimal    `json:"total"`
	CurrencyCode string             `json:"currencyCode"`
	SplitPolicy  string             `json:"splitPolicy"`
	Category     string             `json:"category,omitempty"`
	Description  string             `json:"description,omitempty"`
	Items        []ItemResponse     `json:"items,omitempty"`
	Transfers    []TransferResponse `json:"transfers,omitempty"`
}

// ToItemResponse converts a domain Item to its API representation.
func ToItemResponse(it domain.Item) ItemResponse {
	return ItemResponse{
		ItemID:      it.ItemID,
		Name:        it.Name,
		Quantity:    it.Quantity,
		Price:       it.Price,
		Total:       it.Total,
		AssigneeIDs: it.AssigneeIDs,
	}
}

// ToExpenseResponse converts a domain Expense and its transfers.
func ToExpenseResponse(e domain.Expense, transfers []domain.Transfer) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:    e.ExpenseID,
		SourceID:     e.SourceID,
		PayerID:      e.PayerID,
		Total:        e.Total,
		CurrencyCode: e.CurrencyCode,
		SplitPolicy:  string(e.SplitPolicy),
		Category:     e.Category,
		Description:  e.Description,
	}
	for _, it := range e.Items {
		resp.Items = append(resp.Items, ToItemResponse(it))
	}
	for _, t := range transfers {
		resp.Transfers = append(resp.Transfers, ToTransferResponse(t))
	}
	return resp
}
