package ports

import (
	"context"

	"github.com/invenflow/workforce-api/internal/core/domain"
)

// UserRepository is the credential store contract. Create must fail with
// domain.ErrUserExists when the username is already taken.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the record physically. The user service never calls it;
	// deactivation goes through Update. Kept for admin tooling.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}
