package domain

import (
	"errors"
	"time"
)

// User models a registered account. The password hash never appears in any
// outward-facing representation.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role groups permissions and is assigned to users many-to-many.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Permission is a fine-grained capability. Name is unique and conventionally
// "resource:action", but free-form labels are allowed.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

// Grants is the resolved role/permission set for one user. Permissions are
// the union across all roles, deduplicated by permission identity: two
// permissions sharing a name but not an id are both present.
type Grants struct {
	Roles       []Role
	Permissions []Permission
}

// RoleNames returns the role names in assignment order.
func (g Grants) RoleNames() []string {
	names := make([]string, 0, len(g.Roles))
	for _, r := range g.Roles {
		names = append(names, r.Name)
	}
	return names
}

// PermissionNames returns the permission names deduplicated by name, the flat
// form embedded in issued tokens.
func (g Grants) PermissionNames() []string {
	seen := make(map[string]struct{}, len(g.Permissions))
	names := make([]string, 0, len(g.Permissions))
	for _, p := range g.Permissions {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}

// Verification-layer errors.
var (
	ErrNoToken      = errors.New("authentication token is missing")
	ErrTokenFormat  = errors.New("invalid authentication format")
	ErrTokenExpired = errors.New("authentication token has expired")
	ErrTokenInvalid = errors.New("invalid authentication token")
)

// Persistence- and authorization-layer errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already in use")
	ErrRoleNotFound       = errors.New("role not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
