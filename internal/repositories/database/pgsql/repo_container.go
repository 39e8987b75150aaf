package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	activityRepo := newPgxActivityRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool, activityRepo)
	companyRepo := newPgxCompanyRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, accountRepo, activityRepo)
	sessionRepo := newPgxSessionRepository(dbPool, accountRepo, activityRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo:  accountRepo,
		CompanyRepo:  companyRepo,
		LedgerRepo:   ledgerRepo,
		SessionRepo:  sessionRepo,
		ActivityRepo: activityRepo,
	}
}
