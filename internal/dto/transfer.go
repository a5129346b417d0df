package dto

import (
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferResponse is the API representation of one transfer.
type TransferResponse struct {
	TransferID      string          `json:"transferID"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Ledger          int32           `json:"ledger"`
	Code            string          `json:"code"`
	Pending         bool            `json:"pending,omitempty"`
	ExpenseID       *string         `json:"expenseID,omitempty"`
	PendingID       *string         `json:"pendingID,omitempty"`
	CreatedAt       string          `json:"createdAt"`
}

// ListTransfersResponse is a token-paginated page of transfer history.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToTransferResponse converts a domain Transfer to its API representation.
func ToTransferResponse(t domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferID:      t.TransferID,
		DebitAccountID:  t.DebitAccountID,
		CreditAccountID: t.CreditAccountID,
		Amount:          t.Amount,
		Ledger:          t.Ledger,
		Code:            t.Code.String(),
		Pending:         t.Flags.Has(domain.FlagPending),
		ExpenseID:       t.ExpenseID,
		PendingID:       t.PendingID,
		CreatedAt:       t.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
	}
}

// ToListTransfersResponse converts a page of transfers.
func ToListTransfersResponse(transfers []domain.Transfer, nextToken *string) ListTransfersResponse {
	resp := ListTransfersResponse{NextToken: nextToken}
	for _, t := range transfers {
		resp.Transfers = append(resp.Transfers, ToTransferResponse(t))
	}
	return resp
}
