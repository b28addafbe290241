package domain

import (
	"fmt"
	"time"
)

// Role enumeration. Roles outside this set carry zero permissions.
const (
	RoleAdmin             = "admin"
	RoleManager           = "manager"
	RoleUser              = "user"
	RoleWarehouseWorker   = "warehouse_worker"
	RoleQualityController = "quality_controller"
)

var validRoles = map[string]struct{}{
	RoleAdmin:             {},
	RoleManager:           {},
	RoleUser:              {},
	RoleWarehouseWorker:   {},
	RoleQualityController: {},
}

// ValidRole reports whether role is one of the enumerated values.
func ValidRole(role string) bool {
	_, ok := validRoles[role]
	return ok
}

// Identity is the decoded, verified subject of a token. It is the only
// identity artifact the core trusts for the lifetime of a session.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// User is a stored credential record. Users referenced by historical
// attendance data are never hard-deleted; deactivation flips IsActive.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the token subject for this user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrUserExists         = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrSelfDeletion       = fmt.Errorf("%w: cannot delete own account", ErrConflict)
)
