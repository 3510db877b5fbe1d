package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

type stubVerifier struct {
	tokens map[string]*domain.Claims
	errs   map[string]error
}

func (v *stubVerifier) Verify(raw string) (*domain.Claims, error) {
	if raw == "" {
		return nil, domain.ErrNoToken
	}
	if err, ok := v.errs[raw]; ok {
		return nil, err
	}
	if claims, ok := v.tokens[raw]; ok {
		return claims, nil
	}
	return nil, domain.ErrTokenInvalid
}

func validVerifier() *stubVerifier {
	return &stubVerifier{
		tokens: map[string]*domain.Claims{
			"good-token": {Email: "alice@example.com", Name: "Alice"},
		},
		errs: map[string]error{
			"stale-token": domain.ErrTokenExpired,
		},
	}
}

func runGate(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Gate(validVerifier(), zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestGate_ProtectedAnonymousNavigationRedirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	rec, called := runGate(t, req)
	if called {
		t.Fatalf("next should not run")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	want := "/auth/sign-in?redirect=%2Fadmin%2Fusers"
	if loc := rec.Header().Get("Location"); loc != want {
		t.Fatalf("location = %q, want %q", loc, want)
	}
}

func TestGate_ProtectedAnonymousAPIGets401(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Accept", "application/json")

	rec, called := runGate(t, req)
	if called {
		t.Fatalf("next should not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGate_ProtectedExpiredTokenRedirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Authorization", "Bearer stale-token")

	rec, called := runGate(t, req)
	if called {
		t.Fatalf("next should not run with an expired credential")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/sign-in?redirect=%2Fdashboard" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestGate_ProtectedAuthenticatedAllows(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	rec, called := runGate(t, req)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_CookieCarrier(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good-token"})

	_, called := runGate(t, req)
	if !called {
		t.Fatalf("cookie-carried credential should authenticate")
	}
}

func TestGate_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	// A malformed header is not silently repaired from the cookie.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Token abc")
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good-token"})

	rec, called := runGate(t, req)
	if called {
		t.Fatalf("malformed bearer header must not authenticate")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGate_AuthOnlyAuthenticatedRedirectsToDashboard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/sign-in", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	rec, called := runGate(t, req)
	if called {
		t.Fatalf("next should not run")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != DashboardPath {
		t.Fatalf("location = %q, want %q", loc, DashboardPath)
	}
}

func TestGate_AuthOnlyAnonymousAllows(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/sign-in", nil)
	if _, called := runGate(t, req); !called {
		t.Fatalf("anonymous visitor should reach the sign-in page")
	}
}

func TestGate_PublicAlwaysAllows(t *testing.T) {
	for _, token := range []string{"", "good-token", "stale-token", "junk"} {
		req := httptest.NewRequest(http.MethodGet, "/about", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if _, called := runGate(t, req); !called {
			t.Fatalf("public path should allow (token=%q)", token)
		}
	}
}

func TestGate_StoresClaimsInContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Gate(validVerifier(), zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			t.Fatalf("claims missing from context")
		}
		if claims.Email != "alice@example.com" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequireAuth_PassesWithClaims(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(claimsContextKey, &domain.Claims{Email: "a@b.c"})

	called := false
	handler := RequireAuth()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRequireAuth_RejectsAnonymousWithSpecificError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(authErrorContextKey, domain.ErrTokenExpired)

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
	if he.Message != domain.ErrTokenExpired.Error() {
		t.Fatalf("expected specific verification message, got %v", he.Message)
	}
}
