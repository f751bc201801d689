package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
)

// DBProbe lo que el handler necesita del pool: ping y estadísticas.
type DBProbe interface {
	Ping(ctx context.Context) error
	Stats() (total, idle, acquired, max int32)
}

// SessionCounter sesiones en el índice en memoria.
type SessionCounter interface {
	Cached() int
}

// SystemHandler salud del servicio e información del sistema.
type SystemHandler struct {
	db       DBProbe
	sessions SessionCounter
	app      string
	env      string
	started  time.Time
}

// NewSystemHandler construye el handler. started marca el inicio del proceso.
func NewSystemHandler(db DBProbe, sessions SessionCounter, app, env string, started time.Time) *SystemHandler {
	return &SystemHandler{db: db, sessions: sessions, app: app, env: env, started: started}
}

// Health godoc
// @Summary      Estado del servicio y de la base de datos
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": "down"})
	}
	return c.JSON(fiber.Map{"status": "ok", "db": "up"})
}

// Info godoc
// @Summary      Información del sistema
// @Tags         system
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SystemInfoResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/system/info [get]
func (h *SystemHandler) Info(c *fiber.Ctx) error {
	total, idle, acquired, maxConns := h.db.Stats()
	return ok(c, fiber.StatusOK, dto.SystemInfoResponse{
		App:            h.app,
		Env:            h.env,
		StartedAt:      h.started,
		UptimeSeconds:  int64(time.Since(h.started).Seconds()),
		DBTotalConns:   total,
		DBIdleConns:    idle,
		DBAcquired:     acquired,
		DBMaxConns:     maxConns,
		CachedSessions: h.sessions.Cached(),
	})
}
