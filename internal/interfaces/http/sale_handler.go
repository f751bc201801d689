package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
)

// SaleHandler registro y consulta de ventas (protegido).
type SaleHandler struct {
	gw *auth.Gateway
	co *sales.Coordinator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(gw *auth.Gateway, co *sales.Coordinator) *SaleHandler {
	return &SaleHandler{gw: gw, co: co}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Todas las líneas se confirman juntas o ninguna. El descuento se aplica una vez sobre el total.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "Líneas, método de pago, descuento"
// @Success      201   {object}  dto.SaleResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.co.RegisterSale(c.Context(), GetIdentity(c), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// List godoc
// @Summary      Listar líneas de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from            query  string  false  "Desde"
// @Param        to              query  string  false  "Hasta"
// @Param        user_id         query  string  false  "Vendedor"
// @Param        payment_method  query  string  false  "Método de pago"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.co.ListSales(c.Context(), q)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener una línea de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.co.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Receipt godoc
// @Summary      Comprobante de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        transactionId  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/receipts/{transactionId} [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	out, err := h.co.GetReceipt(c.Context(), c.Params("transactionId"))
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ReceiptPDF godoc
// @Summary      Comprobante en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        transactionId  path  string  true  "ID de la transacción"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/receipts/{transactionId}/pdf [get]
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	b, name, err := h.co.ReceiptPDF(c.Context(), c.Params("transactionId"))
	if err != nil {
		return fail(c, h.gw, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(b)
}
