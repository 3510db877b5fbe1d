package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webstarter/identity-gateway/internal/api/middleware"
	"github.com/webstarter/identity-gateway/internal/core/domain"
)

// ctxClaims extracts the claims injected by the request gate and fast-fails
// before any service call: a missing subject means the gate never ran or the
// token is structurally unusable.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if claims.UserID() == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token missing subject identity")
	}
	return claims, nil
}
