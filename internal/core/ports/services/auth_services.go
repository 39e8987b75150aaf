package services

import (
	"context"

	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

// AuthSvcFacade defines authentication operations at the service boundary.
type AuthSvcFacade interface {
	// Login verifies credentials, issues a JWT and records a LOGIN audit entry.
	Login(ctx context.Context, req dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)

	// Logout records a LOGOUT audit entry for the actor.
	Logout(ctx context.Context, actorID string, ipAddress, userAgent string) error
}
