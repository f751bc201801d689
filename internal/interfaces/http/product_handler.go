package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/inventory"
)

// ProductHandler maneja las peticiones HTTP para Product. Lectura pública, escritura protegida.
type ProductHandler struct {
	gw     *auth.Gateway
	ledger *inventory.Ledger
}

// NewProductHandler construye el handler.
func NewProductHandler(gw *auth.Gateway, ledger *inventory.Ledger) *ProductHandler {
	return &ProductHandler{gw: gw, ledger: ledger}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.ledger.CreateProduct(c.Context(), GetIdentity(c), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusCreated, h.ledger.ToProductResponse(p))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.ledger.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, h.ledger.ToProductResponse(p))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        page                  query  int     false  "Página"  default(1)
// @Param        limit                 query  int     false  "Límite"  default(100)
// @Param        category_id           query  string  false  "Categoría"
// @Param        subcategory_id        query  string  false  "Subcategoría"
// @Param        search                query  string  false  "Texto en nombre o descripción"
// @Param        include_out_of_stock  query  bool    false  "Incluir agotados" default(true)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.ledger.ListProducts(c.Context(), q)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Actualizar campos de un producto
// @Description  Solo se aplican los campos permitidos; un cambio de stock queda registrado como movimiento.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  object  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	patch := map[string]any{}
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}
	p, err := h.ledger.UpdateProduct(c.Context(), GetIdentity(c), c.Params("id"), patch)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, h.ledger.ToProductResponse(p))
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.DeleteProduct(c.Context(), GetIdentity(c), c.Params("id")); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

// Movements godoc
// @Summary      Movimientos de stock de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	q.ProductID = c.Params("id")
	out, err := h.ledger.ListMovements(c.Context(), q)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}
