package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
	clock  func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log, clock: timeNowUTC}
}

func (s *AuthService) Register(ctx context.Context, username, password, email, role string) (*domain.User, error) {
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError("role", "is not a recognized role")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.NewValidationError("email", "is not a valid address")
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		s.log.Warn().Str("user_id", user.ID).Msg("login attempt on inactive account")
		return "", nil, domain.ErrInvalidCredentials
	}
	if !ComparePassword(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func timeNowUTC() time.Time { return time.Now().UTC() }
