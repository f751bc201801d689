package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
)

// AuthHandler maneja login, logout y consulta de sesión.
type AuthHandler struct {
	gw *auth.Gateway
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(gw *auth.Gateway) *AuthHandler {
	return &AuthHandler{gw: gw}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.gw.Login(c.Context(), in.Username, in.Password)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Logout godoc
// @Summary      Cerrar sesión (siempre exitoso)
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token, err := bearerToken(c); err == nil {
		h.gw.Logout(c.Context(), token)
	}
	return ok(c, fiber.StatusOK, nil)
}

// Session godoc
// @Summary      Identidad de la sesión actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserIdentity
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return fail(c, h.gw, err)
	}
	id, err := h.gw.ValidateSession(c.Context(), token)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, auth.ToIdentityDTO(id))
}
