package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/webstarter/identity-gateway/internal/api/metrics"
	"github.com/webstarter/identity-gateway/internal/core/domain"
	"github.com/webstarter/identity-gateway/internal/core/ports"
)

const (
	// AuthCookieName carries the raw signed token for browser flows. API
	// clients send the same token in the Authorization header instead.
	AuthCookieName = "auth_token"

	// SignInPath is where anonymous visitors of protected paths are sent.
	SignInPath = "/auth/sign-in"
	// DashboardPath is the authenticated landing page.
	DashboardPath = "/dashboard"

	claimsContextKey    = "claims"
	authErrorContextKey = "auth_error"
)

// Gate is the per-request authentication gate. It resolves identity from the
// bearer header or the auth cookie, classifies the path, and applies the
// decision table:
//
//	protected + anonymous  → redirect to sign-in (302) for navigational
//	                         requests, structured 401 otherwise
//	protected + identified → allow
//	auth-only + identified → redirect to the dashboard
//	auth-only + anonymous  → allow
//	public                 → allow
//
// On success the decoded claims are stored in the request context.
func Gate(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, verifyErr := resolveClaims(c, verifier)
			if claims != nil {
				c.Set(claimsContextKey, claims)
			} else {
				c.Set(authErrorContextKey, verifyErr)
			}

			path := c.Request().URL.Path
			class := domain.ClassifyRoute(path)

			switch class {
			case domain.RouteProtected:
				if claims == nil {
					if wantsHTML(c.Request()) {
						metrics.GateDecisionsTotal.WithLabelValues(class.String(), "redirect_sign_in").Inc()
						return c.Redirect(http.StatusFound, SignInPath+"?redirect="+url.QueryEscape(path))
					}
					metrics.GateDecisionsTotal.WithLabelValues(class.String(), "deny").Inc()
					log.Debug().Err(verifyErr).Str("path", path).Msg("protected route denied")
					return echo.NewHTTPError(http.StatusUnauthorized, verifyErr.Error())
				}
			case domain.RouteAuthOnly:
				if claims != nil {
					metrics.GateDecisionsTotal.WithLabelValues(class.String(), "redirect_dashboard").Inc()
					return c.Redirect(http.StatusFound, DashboardPath)
				}
			}

			metrics.GateDecisionsTotal.WithLabelValues(class.String(), "allow").Inc()
			return next(c)
		}
	}
}

// resolveClaims reads a credential from the Authorization header or, failing
// that, the auth cookie, and verifies it. Any failure collapses to an
// anonymous request; the typed error is kept for the 401 body.
func resolveClaims(c echo.Context, verifier ports.TokenVerifier) (*domain.Claims, error) {
	raw, err := extractToken(c)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(verificationLabel(err)).Inc()
		return nil, err
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(verificationLabel(err)).Inc()
		return nil, err
	}

	metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
	return claims, nil
}

func extractToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", domain.ErrTokenFormat
		}
		return strings.TrimSpace(parts[1]), nil
	}

	cookie, err := c.Cookie(AuthCookieName)
	if err != nil || cookie.Value == "" {
		return "", domain.ErrNoToken
	}
	return cookie.Value, nil
}

func verificationLabel(err error) string {
	switch err {
	case domain.ErrNoToken:
		return "absent"
	case domain.ErrTokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// wantsHTML reports whether the request is a browser navigation; those get
// redirects instead of raw 401 bodies.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// ClaimsFrom returns the decoded claims stored by Gate, if any.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*domain.Claims)
	return claims, ok
}

// RequireAuth guards API routes outside the protected page prefixes. The gate
// has already resolved identity; this turns its absence into a structured 401
// carrying the specific verification failure.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := ClaimsFrom(c); ok {
				return next(c)
			}
			verifyErr, _ := c.Get(authErrorContextKey).(error)
			if verifyErr == nil {
				verifyErr = domain.ErrNoToken
			}
			return echo.NewHTTPError(http.StatusUnauthorized, verifyErr.Error())
		}
	}
}
