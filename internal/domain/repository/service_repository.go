package repository

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// ServiceRepository define el puerto de persistencia para Service.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	Update(ctx context.Context, s *entity.Service) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Service, error)
}
