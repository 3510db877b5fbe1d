package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webstarter/identity-gateway/internal/core/domain"
	"github.com/webstarter/identity-gateway/internal/core/ports"
)

// AdminHandler serves role administration.
type AdminHandler struct {
	users ports.UserRepository
	rbac  ports.RBACService
	audit ports.AuditRecorder
}

func NewAdminHandler(users ports.UserRepository, rbac ports.RBACService, audit ports.AuditRecorder) *AdminHandler {
	return &AdminHandler{users: users, rbac: rbac, audit: audit}
}

type adminUserResponse struct {
	domain.User
	Roles []string `json:"roles"`
}

// ListUsers returns all users with their resolved role names. Gated by the
// user:read permission.
//
// @Summary      List users with roles
// @Tags         admin
// @Produce      json
// @Success      200  {array}   adminUserResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.users.List(ctx)
	if err != nil {
		return err
	}

	out := make([]adminUserResponse, 0, len(users))
	for _, u := range users {
		grants, err := h.rbac.UserGrants(ctx, u.ID)
		if err != nil {
			return err
		}
		roles := grants.RoleNames()
		if roles == nil {
			roles = []string{}
		}
		out = append(out, adminUserResponse{User: u, Roles: roles})
	}

	return c.JSON(http.StatusOK, out)
}

type roleAssignmentRequest struct {
	UserID string `json:"user_id" validate:"required"`
	RoleID string `json:"role_id" validate:"required"`
}

// AssignRole attaches a role to a user. Gated by the user:update permission.
//
// @Summary      Assign role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      roleAssignmentRequest  true  "Assignment"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/roles [post]
func (h *AdminHandler) AssignRole(c echo.Context) error {
	var req roleAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.rbac.AssignRole(c.Request().Context(), req.UserID, req.RoleID); err != nil {
		return err
	}

	h.recordRoleChange(c, domain.AuditRoleAssigned, req.UserID, req.RoleID)
	return c.JSON(http.StatusOK, map[string]string{"message": "role assigned"})
}

// RemoveRole detaches a role from a user. Gated by the user:update permission.
//
// @Summary      Remove role
// @Tags         admin
// @Produce      json
// @Param        userId  query     string  true  "User id"
// @Param        roleId  query     string  true  "Role id"
// @Success      200     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/users/roles [delete]
func (h *AdminHandler) RemoveRole(c echo.Context) error {
	userID := c.QueryParam("userId")
	roleID := c.QueryParam("roleId")
	if userID == "" || roleID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId and roleId are required")
	}

	if err := h.rbac.RemoveRole(c.Request().Context(), userID, roleID); err != nil {
		return err
	}

	h.recordRoleChange(c, domain.AuditRoleRemoved, userID, roleID)
	return c.JSON(http.StatusOK, map[string]string{"message": "role removed"})
}

type roleCheckResponse struct {
	RoleID     string `json:"role_id"`
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// CheckRolePermission reports whether a single role holds a permission,
// evaluated fresh against the store. Gated by the user:read permission.
//
// @Summary      Check role permission
// @Tags         admin
// @Produce      json
// @Param        id          path      string  true  "Role id"
// @Param        permission  query     string  true  "Permission name"
// @Success      200         {object}  roleCheckResponse
// @Failure      404         {object}  map[string]string
// @Router       /admin/roles/{id}/check [get]
func (h *AdminHandler) CheckRolePermission(c echo.Context) error {
	roleID := c.Param("id")
	permission := c.QueryParam("permission")
	if permission == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "permission is required")
	}

	res, err := h.rbac.CheckRolePermission(c.Request().Context(), roleID, domain.Name(permission))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, roleCheckResponse{
		RoleID:     roleID,
		Permission: permission,
		Granted:    res.Granted,
	})
}

func (h *AdminHandler) recordRoleChange(c echo.Context, action, userID, roleID string) {
	actor := ""
	if claims, err := ctxClaims(c); err == nil {
		actor = claims.UserID()
	}
	h.audit.Record(domain.AuditEvent{
		Actor:      actor,
		Action:     action,
		Detail:     "user=" + userID + " role=" + roleID,
		RemoteAddr: c.RealIP(),
		OccurredAt: time.Now().UTC(),
	})
}
