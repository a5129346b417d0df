package mapping

import (
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/appclub-tech/Billog-sub001/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		UserID:         d.UserID,
		SourceID:       d.SourceID,
		Ledger:         d.Ledger,
		Code:           models.AccountCode(d.Code),
		DebitsPosted:   d.DebitsPosted,
		CreditsPosted:  d.CreditsPosted,
		DebitsPending:  d.DebitsPending,
		CreditsPending: d.CreditsPending,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		UserID:         m.UserID,
		SourceID:       m.SourceID,
		Ledger:         m.Ledger,
		Code:           domain.AccountCode(m.Code),
		DebitsPosted:   m.DebitsPosted,
		CreditsPosted:  m.CreditsPosted,
		DebitsPending:  m.DebitsPending,
		CreditsPending: m.CreditsPending,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
