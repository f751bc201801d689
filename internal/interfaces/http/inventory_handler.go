package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type InventoryHandler struct {
	gw     *auth.Gateway
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(gw *auth.Gateway, ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{gw: gw, ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  entry suma, exit resta y adjustment fija el stock en quantity.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.ledger.RegisterMovement(c.Context(), GetIdentity(c), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusCreated, inventory.ToMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "entry | exit | adjustment"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.ledger.ListMovements(c.Context(), q)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}
