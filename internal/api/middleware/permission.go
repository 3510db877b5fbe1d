package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/webstarter/identity-gateway/internal/api/metrics"
	"github.com/webstarter/identity-gateway/internal/core/domain"
	"github.com/webstarter/identity-gateway/internal/core/ports"
)

// forbiddenMessage is deliberately generic: the missing-permission list is
// internal diagnostics only and must not leak to non-privileged callers.
const forbiddenMessage = "you don't have permission to access this resource"

// PermissionGuard wraps permission-gated routes. Checks run after Gate has
// authenticated the request and always hit the store, so a revoked
// permission takes effect before the credential expires.
type PermissionGuard struct {
	rbac  ports.RBACService
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewPermissionGuard(rbac ports.RBACService, audit ports.AuditRecorder, log zerolog.Logger) *PermissionGuard {
	return &PermissionGuard{rbac: rbac, audit: audit, log: log}
}

// Require returns middleware enforcing the given permission request.
// Authorization failures surface as 403 with a generic message, distinct
// from the gate's unauthenticated 401.
func (g *PermissionGuard) Require(request domain.PermissionRequest) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrNoToken.Error())
			}

			result, err := g.rbac.CheckUserPermission(c.Request().Context(), claims.UserID(), request)
			if err != nil {
				return err
			}

			if !result.Granted {
				metrics.PermissionDenialsTotal.Inc()
				g.log.Debug().
					Str("user_id", claims.UserID()).
					Str("path", c.Request().URL.Path).
					Strs("missing", result.Missing).
					Msg("permission denied")
				g.audit.Record(domain.AuditEvent{
					Actor:      claims.UserID(),
					Action:     domain.AuditPermissionDenied,
					Detail:     strings.Join(result.Missing, ","),
					RemoteAddr: c.RealIP(),
					OccurredAt: time.Now().UTC(),
				})
				return echo.NewHTTPError(http.StatusForbidden, forbiddenMessage)
			}

			return next(c)
		}
	}
}
