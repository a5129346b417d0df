package dto

import "github.com/shopspring/decimal"

// CreateSettlementRequest records a repayment from one member to another.
type CreateSettlementRequest struct {
	FromUserID   string          `json:"fromUserID" binding:"required"`
	ToUserID     string          `json:"toUserID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	ExpenseID    *string         `json:"expenseID,omitempty"`
	Pending      bool            `json:"pending,omitempty"`
	TimeoutSecs  *int64          `json:"timeoutSecs,omitempty"`
}

// ResolvePendingRequest posts or voids a pending settlement.
type ResolvePendingRequest struct {
	Action string `json:"action" binding:"required,oneof=post void"`
}
