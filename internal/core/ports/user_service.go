package ports

import (
	"context"

	"github.com/invenflow/workforce-api/internal/core/domain"
)

// UpdateUserInput carries the mutable user fields. Nil pointers leave the
// field untouched.
type UpdateUserInput struct {
	Email    *string
	Role     *string
	Password *string
	IsActive *bool
}

// UserService defines credential-record management operations. Authorization
// is enforced at the boundary; Delete additionally rejects self-deletion
// regardless of the caller's role.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actorID, targetID string) error
}
