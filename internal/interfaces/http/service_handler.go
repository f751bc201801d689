package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
)

// ServiceHandler catálogo de servicios.
type ServiceHandler struct {
	gw *auth.Gateway
	uc *usecase.ServiceUseCase
}

func NewServiceHandler(gw *auth.Gateway, uc *usecase.ServiceUseCase) *ServiceHandler {
	return &ServiceHandler{gw: gw, uc: uc}
}

// List godoc
// @Summary      Listar servicios activos
// @Tags         services
// @Produce      json
// @Param        include_inactive  query  bool  false  "Incluir dados de baja"
// @Success      200  {array}  dto.ServiceResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.QueryBool("include_inactive", false))
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Create godoc
// @Summary      Crear servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ServiceRequest  true  "Servicio"
// @Success      201   {object}  dto.ServiceResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.ServiceRequest
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
// @Summary      Actualizar servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.UpdateServiceRequest  true  "Campos"
// @Success      200   {object}  dto.ServiceResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Dar de baja un servicio
// @Tags         services
// @Security     Bearer
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
