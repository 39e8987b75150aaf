package services

import (
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/platform/config"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos.AccountRepo, repos.CompanyRepo),
		Ledger:   NewLedgerService(repos.AccountRepo, repos.LedgerRepo),
		Session:  NewSessionService(repos.AccountRepo, repos.SessionRepo, repos.ActivityRepo),
		Activity: NewActivityService(repos.AccountRepo, repos.ActivityRepo),
		Auth:     NewAuthService(repos.AccountRepo, repos.ActivityRepo, cfg),
	}
}
