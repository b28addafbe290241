package service

import (
	"github.com/rs/zerolog"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

// AuthzOption adds an authorization predicate to a single check.
type AuthzOption func(*authzCheck)

type authzCheck struct {
	selfTarget string
	hasSelf    bool
}

// WithSelf permits the check when the acting identity's id equals targetID,
// even without the general permission. Operations like MarkAbsent never pass
// it.
func WithSelf(targetID string) AuthzOption {
	return func(c *authzCheck) {
		c.selfTarget = targetID
		c.hasSelf = true
	}
}

// Guard combines token verification with the permission registry. A check
// succeeds when ANY predicate holds: the registry grants (module, action) to
// the role, the role is the admin literal, or the self override matches.
// Keeping all predicates here avoids ad hoc role checks at call sites.
type Guard struct {
	tokens   ports.TokenService
	registry *domain.Registry
	log      zerolog.Logger
}

func NewGuard(tokens ports.TokenService, registry *domain.Registry, log zerolog.Logger) *Guard {
	return &Guard{tokens: tokens, registry: registry, log: log}
}

// Authorize verifies the raw token and evaluates the predicates. It returns
// domain.ErrUnauthenticated (wrapped with the token failure kind) when the
// token is invalid, and domain.ErrForbidden when the identity is valid but no
// predicate holds.
func (g *Guard) Authorize(token, module, action string, opts ...AuthzOption) (domain.Identity, error) {
	identity, err := g.tokens.Verify(token)
	if err != nil {
		g.log.Debug().Err(err).Msg("token verification failed")
		return domain.Identity{}, err
	}
	if err := g.Check(identity, module, action, opts...); err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}

// Check evaluates the predicates for an already-verified identity.
func (g *Guard) Check(identity domain.Identity, module, action string, opts ...AuthzOption) error {
	check := &authzCheck{}
	for _, opt := range opts {
		opt(check)
	}

	if g.registry.HasPermission(identity.Role, module, action) {
		return nil
	}
	if identity.Role == domain.RoleAdmin {
		return nil
	}
	if check.hasSelf && check.selfTarget != "" && check.selfTarget == identity.ID {
		return nil
	}

	g.log.Debug().
		Str("user_id", identity.ID).
		Str("role", identity.Role).
		Str("module", module).
		Str("action", action).
		Msg("permission denied")
	return domain.ErrForbidden
}
