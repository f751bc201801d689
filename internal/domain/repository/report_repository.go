package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// ReportRepository consultas de solo lectura para reportes.
type ReportRepository interface {
	SalesStats(ctx context.Context, from, to time.Time) (*entity.SalesStats, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error)
	InventorySummary(ctx context.Context, lowThreshold int) (*entity.InventorySummary, error)
}
