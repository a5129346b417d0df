package pgsql

import (
	portsrepo "github.com/appclub-tech/Billog-sub001/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transferRepo := newPgxTransferRepository(dbPool, accountRepo)
	expenseRepo := newPgxExpenseRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:  accountRepo,
		TransferRepo: transferRepo,
		ExpenseRepo:  expenseRepo,
	}
}
