package mapping

import (
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/appclub-tech/Billog-sub001/internal/models"
)

// ToModelTransfer converts a domain Transfer to a model Transfer.
func ToModelTransfer(d domain.Transfer) models.Transfer {
	return models.Transfer{
		TransferID:      d.TransferID,
		DebitAccountID:  d.DebitAccountID,
		CreditAccountID: d.CreditAccountID,
		Amount:          d.Amount,
		Ledger:          d.Ledger,
		Code:            models.TransferCode(d.Code),
		Flags:           models.TransferFlags(d.Flags),
		ExpenseID:       d.ExpenseID,
		PendingID:       d.PendingID,
		Timeout:         d.Timeout,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransfer converts a model Transfer to a domain Transfer.
func ToDomainTransfer(m models.Transfer) domain.Transfer {
	return domain.Transfer{
		TransferID:      m.TransferID,
		DebitAccountID:  m.DebitAccountID,
		CreditAccountID: m.CreditAccountID,
		Amount:          m.Amount,
		Ledger:          m.Ledger,
		Code:            domain.TransferCode(m.Code),
		Flags:           domain.TransferFlags(m.Flags),
		ExpenseID:       m.ExpenseID,
		PendingID:       m.PendingID,
		Timeout:         m.Timeout,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransferSlice converts a slice of model Transfers to domain Transfers.
func ToDomainTransferSlice(ms []models.Transfer) []domain.Transfer {
	ds := make([]domain.Transfer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransfer(m)
	}
	return ds
}
