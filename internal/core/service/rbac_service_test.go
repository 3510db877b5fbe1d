package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

// Scenario from the product requirements: an admin role holding user:read.
func adminOnlyReadRepo() *stubRBACRepo {
	return &stubRBACRepo{grants: map[string]domain.Grants{
		"u1": {
			Roles: []domain.Role{{ID: "r1", Name: "admin"}},
			Permissions: []domain.Permission{
				{ID: "p1", Name: "user:read", Resource: "user", Action: "read"},
			},
		},
	}}
}

func TestRBACService_CheckUserPermission_Granted(t *testing.T) {
	svc := NewRBACService(adminOnlyReadRepo())

	res, err := svc.CheckUserPermission(context.Background(), "u1", domain.Name("user:read"))
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !res.Granted {
		t.Fatalf("expected grant, got %+v", res)
	}
}

func TestRBACService_CheckUserPermission_Missing(t *testing.T) {
	svc := NewRBACService(adminOnlyReadRepo())

	res, err := svc.CheckUserPermission(context.Background(), "u1",
		domain.ResourceAction{Resource: "user", Action: "delete"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if res.Granted {
		t.Fatalf("expected denial")
	}
	if !reflect.DeepEqual(res.Missing, []string{"user:delete"}) {
		t.Fatalf("missing = %v, want [user:delete]", res.Missing)
	}
}

func TestRBACService_CheckUserPermission_UnknownUser(t *testing.T) {
	svc := NewRBACService(adminOnlyReadRepo())

	if _, err := svc.CheckUserPermission(context.Background(), "nope", domain.Name("user:read")); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func editorRoleRepo() *stubRBACRepo {
	return &stubRBACRepo{rolePerms: map[string][]domain.Permission{
		"r2": {
			{ID: "p2", Name: "post:write", Resource: "post", Action: "write"},
		},
	}}
}

func TestRBACService_CheckRolePermission_Granted(t *testing.T) {
	svc := NewRBACService(editorRoleRepo())

	res, err := svc.CheckRolePermission(context.Background(), "r2", domain.Name("post:write"))
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !res.Granted {
		t.Fatalf("expected grant, got %+v", res)
	}
}

func TestRBACService_CheckRolePermission_Missing(t *testing.T) {
	svc := NewRBACService(editorRoleRepo())

	res, err := svc.CheckRolePermission(context.Background(), "r2",
		domain.ResourceAction{Resource: "post", Action: "delete"})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if res.Granted {
		t.Fatalf("expected denial")
	}
	if !reflect.DeepEqual(res.Missing, []string{"post:delete"}) {
		t.Fatalf("missing = %v, want [post:delete]", res.Missing)
	}
}

func TestRBACService_CheckRolePermission_UnknownRole(t *testing.T) {
	svc := NewRBACService(editorRoleRepo())

	if _, err := svc.CheckRolePermission(context.Background(), "nope", domain.Name("post:write")); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRBACService_UserGrants(t *testing.T) {
	svc := NewRBACService(adminOnlyReadRepo())

	grants, err := svc.UserGrants(context.Background(), "u1")
	if err != nil {
		t.Fatalf("grants failed: %v", err)
	}
	if !reflect.DeepEqual(grants.RoleNames(), []string{"admin"}) {
		t.Fatalf("roles = %v", grants.RoleNames())
	}
	if !reflect.DeepEqual(grants.PermissionNames(), []string{"user:read"}) {
		t.Fatalf("permissions = %v", grants.PermissionNames())
	}
}
