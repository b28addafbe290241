package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/invenflow/workforce-api/internal/core/domain"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies HS256-signed identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

type identityClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issue produces a signed, time-bounded token embedding the identity.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	now := time.Now().UTC()
	claims := identityClaims{
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify decodes and validates a token, returning the embedded identity.
// Failures are one of domain.ErrTokenExpired, domain.ErrTokenSignatureInvalid,
// or domain.ErrTokenMalformed; all satisfy errors.Is(err, ErrUnauthenticated).
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, domain.ErrTokenSignatureInvalid
		default:
			return domain.Identity{}, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid || claims.Subject == "" || claims.Username == "" || claims.Role == "" {
		return domain.Identity{}, domain.ErrTokenMalformed
	}

	return domain.Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
