package mapping

import (
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/appclub-tech/Billog-sub001/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense (items excluded;
// they live in their own table).
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:      d.ExpenseID,
		SourceID:       d.SourceID,
		PayerID:        d.PayerID,
		Total:          d.Total,
		CurrencyCode:   d.CurrencyCode,
		Ledger:         d.Ledger,
		SplitPolicy:    models.SplitPolicy(d.SplitPolicy),
		ParticipantIDs: d.ParticipantIDs,
		Category:       d.Category,
		Description:    d.Description,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:      m.ExpenseID,
		SourceID:       m.SourceID,
		PayerID:        m.PayerID,
		Total:          m.Total,
		CurrencyCode:   m.CurrencyCode,
		Ledger:         m.Ledger,
		SplitPolicy:    domain.SplitPolicy(m.SplitPolicy),
		ParticipantIDs: m.ParticipantIDs,
		Category:       m.Category,
		Description:    m.Description,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelItem converts a domain Item to a model Item.
func ToModelItem(d domain.Item) models.Item {
	return models.Item{
		ItemID:      d.ItemID,
		ExpenseID:   d.ExpenseID,
		Name:        d.Name,
		Quantity:    d.Quantity,
		Price:       d.Price,
		Total:       d.Total,
		AssigneeIDs: d.AssigneeIDs,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainItem converts a model Item to a domain Item.
func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		ItemID:      m.ItemID,
		ExpenseID:   m.ExpenseID,
		Name:        m.Name,
		Quantity:    m.Quantity,
		Price:       m.Price,
		Total:       m.Total,
		AssigneeIDs: m.AssigneeIDs,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainItemSlice converts a slice of model Items to domain Items.
func ToDomainItemSlice(ms []models.Item) []domain.Item {
	ds := make([]domain.Item, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainItem(m)
	}
	return ds
}
