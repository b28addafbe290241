package service

import (
	"context"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

// UserService implements credential-record management. Deletion is a soft
// delete: the record stays referenced by historical attendance data, only
// IsActive flips.
type UserService struct {
	repo  ports.UserRepository
	log   zerolog.Logger
	clock func() time.Time
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, clock: timeNowUTC}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if *input.Email != "" {
			if _, err := mail.ParseAddress(*input.Email); err != nil {
				return nil, domain.NewValidationError("email", "is not a valid address")
			}
		}
		user.Email = *input.Email
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, domain.NewValidationError("role", "is not a recognized role")
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, domain.NewValidationError("password", "must not be empty")
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	user.UpdatedAt = s.clock()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

// Delete deactivates the target account. Self-deletion fails regardless of
// role.
func (s *UserService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.ErrSelfDeletion
	}

	user, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.log.Info().Str("user_id", targetID).Str("actor_id", actorID).Msg("user deactivated")
	return nil
}
