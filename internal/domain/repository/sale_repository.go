package repository

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para líneas de venta.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Sale, error)
	List(ctx context.Context, filter entity.SaleFilter) ([]*entity.Sale, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
