package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, id, username, role string) *domain.User {
	t.Helper()
	hash, err := HashPassword("origpass1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	user := &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if _, err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUserService_Delete_SoftDeletes(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seedUser(t, repo, "u2", "bob", domain.RoleUser)

	if err := svc.Delete(context.Background(), "admin-1", "u2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// The record survives deactivated; historical attendance keeps a valid
	// reference.
	stored, err := repo.FindByID(context.Background(), "u2")
	if err != nil {
		t.Fatalf("record should still exist after delete: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("expected IsActive=false after delete")
	}
}

func TestUserService_Delete_SelfAlwaysFails(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seedUser(t, repo, "a1", "ada", domain.RoleAdmin)

	if err := svc.Delete(context.Background(), "a1", "a1"); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), "a1")
	if !stored.IsActive {
		t.Fatalf("self-deletion attempt must not deactivate the account")
	}
}

func TestUserService_Delete_UnknownTarget(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	if err := svc.Delete(context.Background(), "a1", "nope"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_Fields(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seedUser(t, repo, "u1", "alice", domain.RoleUser)

	email := "alice@invenflow.example"
	role := domain.RoleManager
	password := "newpass123"
	updated, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{
		Email:    &email,
		Role:     &role,
		Password: &password,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != email || updated.Role != role {
		t.Fatalf("fields not applied: %+v", updated)
	}
	if !ComparePassword(password, updated.PasswordHash) {
		t.Fatalf("password was not rehashed")
	}
	if ComparePassword("origpass1", updated.PasswordHash) {
		t.Fatalf("old password still matches")
	}
}

func TestUserService_Update_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seedUser(t, repo, "u1", "alice", domain.RoleUser)

	badEmail := "not-an-email"
	if _, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{Email: &badEmail}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}

	badRole := "superuser"
	if _, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{Role: &badRole}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}

	empty := ""
	if _, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{Password: &empty}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}

	// None of the rejected updates may have mutated the record.
	stored, _ := repo.FindByID(context.Background(), "u1")
	if stored.Role != domain.RoleUser || stored.Email != "" {
		t.Fatalf("rejected update mutated the record: %+v", stored)
	}
}
