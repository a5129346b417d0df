package services

// ServiceContainer bundles every service facade the handlers depend on.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Transfer       TransferSvcFacade
	Balance        BalanceSvcFacade
	Expense        ExpenseSvcFacade
	Reconciliation ReconciliationSvcFacade
}
