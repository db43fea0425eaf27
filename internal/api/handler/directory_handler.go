package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smallplatform/personnel-api/internal/core/ports"
)

type DirectoryHandler struct {
	directory ports.DirectoryService
}

func NewDirectoryHandler(directory ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// Overview returns the role-dependent dashboard payload.
//
// @Summary      Dashboard overview
// @Tags         directory
// @Produce      json
// @Success      200  {object}  ports.Overview
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /dashboard [get]
func (h *DirectoryHandler) Overview(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	overview, err := h.directory.Overview(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overview)
}

// Report returns the admin listing of name, role and last login per account.
//
// @Summary      Personnel report
// @Tags         directory
// @Produce      json
// @Success      200  {array}   ports.ReportRow
// @Failure      403  {object}  map[string]string
// @Router       /reports [get]
func (h *DirectoryHandler) Report(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	rows, err := h.directory.Report(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// List returns the roster, optionally filtered with ?role=.
//
// @Summary      List users
// @Tags         directory
// @Produce      json
// @Param        role  query     string  false  "Filter by role"
// @Success      200   {array}   domain.User
// @Failure      403   {object}  map[string]string
// @Router       /users [get]
func (h *DirectoryHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.directory.List(c.Request().Context(), principal, c.QueryParam("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a single user record.
//
// @Summary      Get user
// @Tags         directory
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *DirectoryHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.directory.Get(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=admin employee"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// Update modifies a user record.
//
// @Summary      Update user
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *DirectoryHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.directory.Update(c.Request().Context(), principal, c.Param("id"), ports.DirectoryUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
