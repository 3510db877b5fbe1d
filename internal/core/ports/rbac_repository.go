package ports

import (
	"context"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

// RBACRepository resolves role and permission assignments from the store.
//
// UserGrants returns the user's roles and the union of permissions attached
// to those roles, deduplicated by permission identity (id), not name.
type RBACRepository interface {
	UserGrants(ctx context.Context, userID string) (domain.Grants, error)
	RolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error)
	AssignRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}
