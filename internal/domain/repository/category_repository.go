package repository

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category y Subcategory.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	// ListWithSubcategories devuelve las categorías con sus subcategorías anidadas.
	ListWithSubcategories(ctx context.Context) ([]*entity.Category, error)

	CreateSubcategory(ctx context.Context, s *entity.Subcategory) error
	GetSubcategory(ctx context.Context, id string) (*entity.Subcategory, error)
	GetSubcategoryByName(ctx context.Context, categoryID, name string) (*entity.Subcategory, error)
	RenameSubcategory(ctx context.Context, id, name string) error
	DeleteSubcategory(ctx context.Context, id string) error
	DeleteSubcategoriesByCategory(ctx context.Context, categoryID string) (int, error)
}
