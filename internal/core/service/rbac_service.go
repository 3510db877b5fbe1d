package service

import (
	"context"

	"github.com/webstarter/identity-gateway/internal/core/domain"
	"github.com/webstarter/identity-gateway/internal/core/ports"
)

// RBACService answers authorization questions against the store. Permission
// sets are loaded fresh per check; the evaluation itself is the pure
// domain.Check.
type RBACService struct {
	repo ports.RBACRepository
}

func NewRBACService(repo ports.RBACRepository) *RBACService {
	return &RBACService{repo: repo}
}

// UserGrants resolves the user's roles and the deduplicated union of their
// permissions.
func (s *RBACService) UserGrants(ctx context.Context, userID string) (domain.Grants, error) {
	return s.repo.UserGrants(ctx, userID)
}

// CheckUserPermission loads the user's permission set and evaluates the
// request against it.
func (s *RBACService) CheckUserPermission(ctx context.Context, userID string, request domain.PermissionRequest) (domain.CheckResult, error) {
	grants, err := s.repo.UserGrants(ctx, userID)
	if err != nil {
		return domain.CheckResult{}, err
	}
	return domain.Check(grants.Permissions, request), nil
}

// CheckRolePermission evaluates the request against a single role's
// permission set.
func (s *RBACService) CheckRolePermission(ctx context.Context, roleID string, request domain.PermissionRequest) (domain.CheckResult, error) {
	permissions, err := s.repo.RolePermissions(ctx, roleID)
	if err != nil {
		return domain.CheckResult{}, err
	}
	return domain.Check(permissions, request), nil
}

// AssignRole attaches a role to a user.
func (s *RBACService) AssignRole(ctx context.Context, userID, roleID string) error {
	return s.repo.AssignRole(ctx, userID, roleID)
}

// RemoveRole detaches a role from a user.
func (s *RBACService) RemoveRole(ctx context.Context, userID, roleID string) error {
	return s.repo.RemoveRole(ctx, userID, roleID)
}
