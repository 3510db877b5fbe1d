package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

type stubRBACRepo struct {
	grants    map[string]domain.Grants
	rolePerms map[string][]domain.Permission
	err       error
}

func (r *stubRBACRepo) UserGrants(_ context.Context, userID string) (domain.Grants, error) {
	if r.err != nil {
		return domain.Grants{}, r.err
	}
	g, ok := r.grants[userID]
	if !ok {
		return domain.Grants{}, domain.ErrUserNotFound
	}
	return g, nil
}

func (r *stubRBACRepo) RolePermissions(_ context.Context, roleID string) ([]domain.Permission, error) {
	if r.err != nil {
		return nil, r.err
	}
	perms, ok := r.rolePerms[roleID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return perms, nil
}

func (r *stubRBACRepo) AssignRole(_ context.Context, _, _ string) error { return nil }
func (r *stubRBACRepo) RemoveRole(_ context.Context, _, _ string) error { return nil }

func adminGrants() domain.Grants {
	return domain.Grants{
		Roles: []domain.Role{{ID: "r1", Name: "admin"}},
		Permissions: []domain.Permission{
			{ID: "p1", Name: "user:read", Resource: "user", Action: "read"},
			{ID: "p2", Name: "user:read", Resource: "user", Action: "read"}, // duplicate name
			{ID: "p3", Name: "user:update", Resource: "user", Action: "update"},
		},
	}
}

func testUser() *domain.User {
	return &domain.User{ID: "u1", Email: "alice@example.com", Name: "Alice"}
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	repo := &stubRBACRepo{grants: map[string]domain.Grants{"u1": adminGrants()}}
	svc := NewTokenService(repo, "secret", time.Hour)

	token, err := svc.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID() != "u1" {
		t.Fatalf("subject = %q, want u1", claims.UserID())
	}
	if claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Fatalf("unexpected identity fields: %+v", claims)
	}
	if !reflect.DeepEqual(claims.Roles, []string{"admin"}) {
		t.Fatalf("roles = %v, want [admin]", claims.Roles)
	}
	// Permission names are deduplicated by name in the embedded claim.
	if !reflect.DeepEqual(claims.Permissions, []string{"user:read", "user:update"}) {
		t.Fatalf("permissions = %v", claims.Permissions)
	}
}

func TestTokenService_IssueStoreFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewTokenService(&stubRBACRepo{err: storeErr}, "secret", time.Hour)

	if _, err := svc.Issue(context.Background(), testUser()); !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestTokenService_VerifyEmpty(t *testing.T) {
	svc := NewTokenService(&stubRBACRepo{}, "secret", time.Hour)
	if _, err := svc.Verify(""); err != domain.ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestTokenService_VerifyGarbage(t *testing.T) {
	svc := NewTokenService(&stubRBACRepo{}, "secret", time.Hour)
	if _, err := svc.Verify("not-a-token"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_VerifyWrongSecret(t *testing.T) {
	repo := &stubRBACRepo{grants: map[string]domain.Grants{"u1": adminGrants()}}
	issuer := NewTokenService(repo, "secret-a", time.Hour)
	verifier := NewTokenService(repo, "secret-b", time.Hour)

	token, err := issuer.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.Verify(token); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	repo := &stubRBACRepo{grants: map[string]domain.Grants{"u1": adminGrants()}}
	svc := NewTokenService(repo, "secret", time.Hour)

	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	expiry := issuedAt.Add(time.Hour)

	// One second before expiry: still valid.
	svc.now = func() time.Time { return expiry.Add(-time.Second) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should be valid just before expiry: %v", err)
	}

	// Exactly at expiry: already expired (inclusive boundary).
	svc.now = func() time.Time { return expiry }
	if _, err := svc.Verify(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired at the boundary, got %v", err)
	}

	// Past expiry.
	svc.now = func() time.Time { return expiry.Add(time.Minute) }
	if _, err := svc.Verify(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired after expiry, got %v", err)
	}
}

func TestTokenService_SnapshotSemantics(t *testing.T) {
	repo := &stubRBACRepo{grants: map[string]domain.Grants{"u1": adminGrants()}}
	svc := NewTokenService(repo, "secret", time.Hour)

	token, err := svc.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Revoking the role after issuance does not touch the already-signed claim.
	repo.grants["u1"] = domain.Grants{}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(claims.Permissions) == 0 {
		t.Fatalf("issued token should keep its issuance-time snapshot")
	}
}
