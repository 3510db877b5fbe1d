package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/webstarter/identity-gateway/internal/api/metrics"
	"github.com/webstarter/identity-gateway/internal/api/middleware"
	"github.com/webstarter/identity-gateway/internal/core/domain"
	"github.com/webstarter/identity-gateway/internal/core/ports"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService ports.AuthService
	limiter     ports.LoginLimiter
	audit       ports.AuditRecorder
	tokenTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, limiter ports.LoginLimiter, audit ports.AuditRecorder, tokenTTL time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
		audit:       audit,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationLabel(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.audit.Record(domain.AuditEvent{
		Actor:      user.ID,
		Action:     domain.AuditUserRegistered,
		RemoteAddr: c.RealIP(),
		OccurredAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a signed credential. The credential
// is also set as an HTTP-only cookie for browser navigation.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	allowed, err := h.limiter.Allow(c.Request().Context(), req.Email+":"+c.RealIP())
	if err != nil {
		// A broken limiter must not lock users out.
		h.log.Error().Err(err).Msg("login limiter unavailable")
	} else if !allowed {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		h.audit.Record(domain.AuditEvent{
			Actor:      req.Email,
			Action:     domain.AuditLoginFailed,
			Detail:     "throttled",
			RemoteAddr: c.RealIP(),
			OccurredAt: time.Now().UTC(),
		})
		return echo.NewHTTPError(http.StatusTooManyRequests, domain.ErrTooManyAttempts.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginLabel(err)).Inc()
		h.audit.Record(domain.AuditEvent{
			Actor:      req.Email,
			Action:     domain.AuditLoginFailed,
			RemoteAddr: c.RealIP(),
			OccurredAt: time.Now().UTC(),
		})
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.audit.Record(domain.AuditEvent{
		Actor:      user.ID,
		Action:     domain.AuditLoginSucceeded,
		RemoteAddr: c.RealIP(),
		OccurredAt: time.Now().UTC(),
	})

	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Logout clears the auth cookie. The credential itself stays valid until
// expiry; logout is a client-state operation.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func loginLabel(err error) string {
	if err == domain.ErrInvalidCredentials {
		return "invalid_credentials"
	}
	return "error"
}

func registrationLabel(err error) string {
	switch err {
	case domain.ErrUserExists:
		return "conflict"
	case domain.ErrInvalidCredentials:
		return "invalid"
	default:
		return "error"
	}
}
