package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// CategoryUseCase administra categorías y subcategorías. El borrado se bloquea mientras
// algún producto las referencie.
type CategoryUseCase struct {
	tx   TxRunner
	repo repository.CategoryRepository
	log  zerolog.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(tx TxRunner, repo repository.CategoryRepository, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{tx: tx, repo: repo, log: log.With().Str("component", "categories").Logger()}
}

// List devuelve las categorías con sus subcategorías anidadas.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := uc.repo.ListWithSubcategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Create crea una categoría; el nombre no puede repetirse (sin distinguir mayúsculas ni tildes).
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := cleanName(in.Name)
	if name == "" {
		return nil, domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
	}
	if err := uc.ensureUniqueCategory(ctx, "", name); err != nil {
		return nil, err
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("category_id", c.ID).Str("name", name).Msg("categoría creada")
	out := toCategoryResponse(c)
	return &out, nil
}

// Rename cambia el nombre de una categoría.
func (uc *CategoryUseCase) Rename(ctx context.Context, id string, in dto.CategoryRequest) error {
	name := cleanName(in.Name)
	if name == "" {
		return domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrCategoryNotFound
	}
	if err := uc.ensureUniqueCategory(ctx, id, name); err != nil {
		return err
	}
	return uc.repo.Rename(ctx, id, name)
}

// Delete elimina la categoría y sus subcategorías en una transacción. Falla con
// CATEGORY_IN_USE si algún producto la referencia.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	var subs int
	err := uc.tx.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		c, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCategoryNotFound
		}
		n, err := tx.Products.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewBusiness("CATEGORY_IN_USE", "no se puede eliminar %s: tiene %d productos asociados", c.Name, n)
		}
		if subs, err = tx.Categories.DeleteSubcategoriesByCategory(ctx, id); err != nil {
			return err
		}
		return tx.Categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("category_id", id).Int("subcategories", subs).Msg("categoría eliminada")
	return nil
}

// CreateSubcategory crea una subcategoría dentro de la categoría.
func (uc *CategoryUseCase) CreateSubcategory(ctx context.Context, categoryID string, in dto.CategoryRequest) (*dto.SubcategoryResponse, error) {
	name := cleanName(in.Name)
	if name == "" {
		return nil, domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
	}
	c, err := uc.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	if err := uc.ensureUniqueSubcategory(ctx, categoryID, "", name); err != nil {
		return nil, err
	}
	s := &entity.Subcategory{ID: uuid.New().String(), CategoryID: categoryID, Name: name, CreatedAt: time.Now()}
	if err := uc.repo.CreateSubcategory(ctx, s); err != nil {
		return nil, err
	}
	out := toSubcategoryResponse(s)
	return &out, nil
}

// RenameSubcategory cambia el nombre de una subcategoría.
func (uc *CategoryUseCase) RenameSubcategory(ctx context.Context, id string, in dto.CategoryRequest) error {
	name := cleanName(in.Name)
	if name == "" {
		return domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
	}
	s, err := uc.repo.GetSubcategory(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewBusiness("SUBCATEGORY_NOT_FOUND", "subcategoría no encontrada")
	}
	if err := uc.ensureUniqueSubcategory(ctx, s.CategoryID, id, name); err != nil {
		return err
	}
	return uc.repo.RenameSubcategory(ctx, id, name)
}

// DeleteSubcategory elimina la subcategoría si ningún producto la usa.
func (uc *CategoryUseCase) DeleteSubcategory(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		s, err := tx.Categories.GetSubcategory(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NewBusiness("SUBCATEGORY_NOT_FOUND", "subcategoría no encontrada")
		}
		n, err := tx.Products.CountBySubcategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewBusiness("SUBCATEGORY_IN_USE", "no se puede eliminar %s: tiene %d productos asociados", s.Name, n)
		}
		return tx.Categories.DeleteSubcategory(ctx, id)
	})
}

func (uc *CategoryUseCase) ensureUniqueCategory(ctx context.Context, selfID, name string) error {
	cats, err := uc.repo.ListWithSubcategories(ctx)
	if err != nil {
		return err
	}
	key := nameKey(name)
	for _, c := range cats {
		if c.ID != selfID && nameKey(c.Name) == key {
			return domain.NewBusiness(domain.ErrDuplicate.Code, "ya existe la categoría %s", c.Name)
		}
	}
	return nil
}

func (uc *CategoryUseCase) ensureUniqueSubcategory(ctx context.Context, categoryID, selfID, name string) error {
	cats, err := uc.repo.ListWithSubcategories(ctx)
	if err != nil {
		return err
	}
	key := nameKey(name)
	for _, c := range cats {
		if c.ID != categoryID {
			continue
		}
		for _, s := range c.Subcategories {
			if s.ID != selfID && nameKey(s.Name) == key {
				return domain.NewBusiness(domain.ErrDuplicate.Code, "ya existe la subcategoría %s", s.Name)
			}
		}
	}
	return nil
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	out := dto.CategoryResponse{ID: c.ID, Name: c.Name, Subcategories: make([]dto.SubcategoryResponse, 0, len(c.Subcategories))}
	for _, s := range c.Subcategories {
		out.Subcategories = append(out.Subcategories, toSubcategoryResponse(s))
	}
	return out
}

func toSubcategoryResponse(s *entity.Subcategory) dto.SubcategoryResponse {
	return dto.SubcategoryResponse{ID: s.ID, CategoryID: s.CategoryID, Name: s.Name}
}
