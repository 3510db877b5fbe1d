package ports

import (
	"context"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

// RBACService answers authorization questions against the store and manages
// role assignments.
type RBACService interface {
	UserGrants(ctx context.Context, userID string) (domain.Grants, error)
	CheckUserPermission(ctx context.Context, userID string, request domain.PermissionRequest) (domain.CheckResult, error)
	CheckRolePermission(ctx context.Context, roleID string, request domain.PermissionRequest) (domain.CheckResult, error)
	AssignRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}
