package ports

import (
	"context"

	"github.com/invenflow/workforce-api/internal/core/domain"
)

// TokenService issues and verifies signed identity tokens.
type TokenService interface {
	Issue(identity domain.Identity) (string, error)
	Verify(token string) (domain.Identity, error)
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, username, password, email, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
