package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/analytics"
	"github.com/jhoicas/inventario-ventas/internal/application/auth"
)

// ReportHandler reportes de ventas e inventario (protegido).
type ReportHandler struct {
	gw *auth.Gateway
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(gw *auth.Gateway, uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{gw: gw, uc: uc}
}

// Summary godoc
// @Summary      Resumen de ventas, más vendidos e inventario
// @Description  Sin fechas, toma el mes en curso.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        top   query  int     false  "Cantidad de productos más vendidos" default(10)
// @Success      200   {object}  dto.ReportSummaryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context(), c.Query("from"), c.Query("to"), c.QueryInt("top", 0))
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}
