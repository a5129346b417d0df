package repositories

// RepositoryProvider bundles the repositories the service layer is built on.
type RepositoryProvider struct {
	AccountRepo  AccountRepositoryFacade
	TransferRepo TransferRepositoryWithTx
	ExpenseRepo  ExpenseRepositoryWithTx
}
