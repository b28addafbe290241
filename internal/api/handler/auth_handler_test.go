package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/invenflow/workforce-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, email, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, email, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, email, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, username, password, email, role string) (*domain.User, error) {
			if username != "alice" || role != domain.RoleManager {
				t.Fatalf("unexpected args: %s %s", username, role)
			}
			return &domain.User{ID: "u1", Username: username, Email: email, Role: role, IsActive: true}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"username":"alice","password":"s3cret-pass","email":"alice@example.com","role":"manager"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("unexpected response body: %s", rec.Body.String())
	}
	if resp.User.PasswordHash != "" {
		t.Fatal("password hash leaked in response")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, error) {
			t.Fatal("service must not be called on invalid payload")
			return nil, nil
		},
	})

	cases := []struct {
		name string
		body string
	}{
		{"short password", `{"username":"alice","password":"short","role":"user"}`},
		{"unknown role", `{"username":"alice","password":"s3cret-pass","role":"superuser"}`},
		{"bad email", `{"username":"alice","password":"s3cret-pass","email":"not-an-email","role":"user"}`},
		{"missing username", `{"password":"s3cret-pass","role":"user"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newJSONContext(t, http.MethodPost, "/auth/register", tc.body)
			err := h.Register(c)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, *domain.User, error) {
			return "signed.jwt.token", &domain.User{ID: "u1", Username: username, Role: domain.RoleUser, IsActive: true}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"s3cret-pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "signed.jwt.token" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
	// The error handler maps ErrUnauthenticated descendants to 401; here we
	// only assert the handler passes the domain error through.
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
