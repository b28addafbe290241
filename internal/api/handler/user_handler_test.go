package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/invenflow/workforce-api/internal/api/middleware"
	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

type stubUserService struct {
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, actorID, targetID string) error
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, actorID, targetID string) error {
	return s.deleteFn(ctx, actorID, targetID)
}

func newUserContext(t *testing.T, identity domain.Identity, method, body, targetID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, "/v1/users/"+targetID, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	c.Set(middleware.IdentityKey, identity)
	return c, rec
}

func TestUserHandler_Get_SelfAllowed(t *testing.T) {
	identity := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleUser}
	svc := &stubUserService{
		getFn: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Username: "alice", Role: domain.RoleUser, IsActive: true}, nil
		},
	}
	h := NewUserHandler(svc, testGuard())

	c, rec := newUserContext(t, identity, http.MethodGet, "", "u1")
	if err := h.Get(c); err != nil {
		t.Fatalf("self lookup rejected: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Get_OtherForbiddenForPlainUser(t *testing.T) {
	identity := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleUser}
	h := NewUserHandler(&stubUserService{}, testGuard())

	c, _ := newUserContext(t, identity, http.MethodGet, "", "u2")
	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Delete_PlainUserForbidden(t *testing.T) {
	identity := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleUser}
	h := NewUserHandler(&stubUserService{
		deleteFn: func(context.Context, string, string) error {
			t.Fatal("service must not be reached without users:delete")
			return nil
		},
	}, testGuard())

	c, _ := newUserContext(t, identity, http.MethodDelete, "", "u2")
	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Delete_AdminSucceeds(t *testing.T) {
	identity := domain.Identity{ID: "admin1", Username: "root", Role: domain.RoleAdmin}
	var gotActor, gotTarget string
	h := NewUserHandler(&stubUserService{
		deleteFn: func(_ context.Context, actorID, targetID string) error {
			gotActor, gotTarget = actorID, targetID
			return nil
		},
	}, testGuard())

	c, rec := newUserContext(t, identity, http.MethodDelete, "", "u2")
	if err := h.Delete(c); err != nil {
		t.Fatalf("admin delete rejected: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotActor != "admin1" || gotTarget != "u2" {
		t.Fatalf("unexpected delete args: actor=%s target=%s", gotActor, gotTarget)
	}
}

func TestUserHandler_Delete_SelfConflictPassesThrough(t *testing.T) {
	identity := domain.Identity{ID: "admin1", Username: "root", Role: domain.RoleAdmin}
	h := NewUserHandler(&stubUserService{
		deleteFn: func(_ context.Context, actorID, targetID string) error {
			return domain.ErrSelfDeletion
		},
	}, testGuard())

	c, _ := newUserContext(t, identity, http.MethodDelete, "", "admin1")
	if err := h.Delete(c); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}

func TestUserHandler_Update_SelfProfile(t *testing.T) {
	identity := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleUser}
	h := NewUserHandler(&stubUserService{
		updateFn: func(_ context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
			if id != "u1" || in.Email == nil || *in.Email != "new@example.com" {
				t.Fatalf("unexpected update: id=%s input=%+v", id, in)
			}
			return &domain.User{ID: id, Username: "alice", Email: *in.Email, Role: domain.RoleUser, IsActive: true}, nil
		},
	}, testGuard())

	c, rec := newUserContext(t, identity, http.MethodPut, `{"email":"new@example.com"}`, "u1")
	if err := h.Update(c); err != nil {
		t.Fatalf("self update rejected: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_SelfRoleChangeForbidden(t *testing.T) {
	identity := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleUser}
	h := NewUserHandler(&stubUserService{
		updateFn: func(context.Context, string, ports.UpdateUserInput) (*domain.User, error) {
			t.Fatal("role escalation must not reach the service")
			return nil, nil
		},
	}, testGuard())

	c, _ := newUserContext(t, identity, http.MethodPut, `{"role":"admin"}`, "u1")
	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
