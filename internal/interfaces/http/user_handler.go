package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
)

// UserHandler administración de usuarios (admin) y cambio de contraseña propia.
type UserHandler struct {
	gw *auth.Gateway
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(gw *auth.Gateway, uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{gw: gw, uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Stats godoc
// @Summary      Usuarios por rol
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/stats [get]
func (h *UserHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Activity godoc
// @Summary      Usuarios con sus sesiones activas
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de usuarios (1-1000, por defecto 50)"
// @Success      200  {array}   dto.UserActivityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/activity [get]
func (h *UserHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Security     Bearer
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "username, password, name, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Security     Bearer
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetIdentity(c), c.Params("id")); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña propia
// @Description  Revoca todas las sesiones del usuario, incluida la actual.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ChangePassword(c.Context(), GetIdentity(c), in); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
