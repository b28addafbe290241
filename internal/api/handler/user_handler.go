package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
	"github.com/invenflow/workforce-api/internal/core/service"
)

// UserHandler handles credential-record management requests.
type UserHandler struct {
	users ports.UserService
	guard *service.Guard
}

func NewUserHandler(users ports.UserService, guard *service.Guard) *UserHandler {
	return &UserHandler{users: users, guard: guard}
}

type updateUserRequest struct {
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Role     *string `json:"role,omitempty"     validate:"omitempty,oneof=admin manager user warehouse_worker quality_controller"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /v1/users/:id. Viewing one's own profile is allowed without
// the general users:view permission.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	targetID := c.Param("id")

	if err := h.guard.Check(identity, domain.ModuleUsers, domain.ActionView, service.WithSelf(targetID)); err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /v1/users/:id. Profile updates are self-permitted; a
// role change additionally requires users:manage (or the admin bypass).
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	targetID := c.Param("id")

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.guard.Check(identity, domain.ModuleUsers, domain.ActionUpdate, service.WithSelf(targetID)); err != nil {
		return err
	}
	if req.Role != nil || req.IsActive != nil {
		// Role and activation changes are never self-service.
		if err := h.guard.Check(identity, domain.ModuleUsers, domain.ActionManage); err != nil {
			return err
		}
	}

	user, err := h.users.Update(c.Request().Context(), targetID, ports.UpdateUserInput{
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id. Self-deletion is rejected by the
// service regardless of role.
//
// @Summary      Deactivate a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	targetID := c.Param("id")

	if err := h.guard.Check(identity, domain.ModuleUsers, domain.ActionDelete); err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), identity.ID, targetID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
