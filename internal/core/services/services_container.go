package services

import (
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	portssvc "github.com/appclub-tech/Billog-sub001/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account and transfer services first since the others depend on them
	container.Account = NewAccountService(repos.AccountRepo)
	container.Transfer = NewTransferService(repos.TransferRepo)

	container.Balance = NewBalanceService(repos.AccountRepo, repos.TransferRepo, repos.ExpenseRepo)
	container.Expense = NewExpenseService(container.Account, container.Transfer, repos.ExpenseRepo, repos.TransferRepo)
	container.Reconciliation = NewReconciliationService(container.Account, repos.AccountRepo, repos.TransferRepo, repos.ExpenseRepo)

	return container
}
