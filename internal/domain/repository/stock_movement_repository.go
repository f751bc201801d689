package repository

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// StockMovementRepository es el log append-only de movimientos. No hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, int, error)
}
