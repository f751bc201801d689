package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías y subcategorías sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return translateError(err, "insert category")
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.findCategory(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id)
}

// GetByName búsqueda sin distinguir mayúsculas.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.findCategory(ctx, `SELECT id, name, created_at FROM categories WHERE lower(name) = lower($1)`, name)
}

func (r *CategoryRepo) findCategory(ctx context.Context, query string, args ...any) (*entity.Category, error) {
	var c entity.Category
	if err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "get category")
	}
	return &c, nil
}

func (r *CategoryRepo) Rename(ctx context.Context, id, name string) error {
	tag, err := r.q.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return translateError(err, "rename category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Delete falla con REFERENCED si algún producto la usa.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return translateError(err, "delete category")
	}
	return nil
}

// ListWithSubcategories una sola consulta con LEFT JOIN, agrupada en memoria.
func (r *CategoryRepo) ListWithSubcategories(ctx context.Context) ([]*entity.Category, error) {
	query := `
		SELECT c.id, c.name, c.created_at, s.id, s.name, s.created_at
		FROM categories c
		LEFT JOIN subcategories s ON s.category_id = c.id
		ORDER BY c.name, c.id, s.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "list categories")
	}
	defer rows.Close()

	var (
		out  []*entity.Category
		last *entity.Category
	)
	for rows.Next() {
		var (
			c       entity.Category
			subID   *string
			subName *string
			subAt   *time.Time
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &subID, &subName, &subAt); err != nil {
			return nil, translateError(err, "scan category")
		}
		if last == nil || last.ID != c.ID {
			cp := c
			last = &cp
			out = append(out, last)
		}
		if subID != nil {
			last.Subcategories = append(last.Subcategories, &entity.Subcategory{
				ID: *subID, CategoryID: c.ID, Name: *subName, CreatedAt: *subAt,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "list categories")
	}
	return out, nil
}

func (r *CategoryRepo) CreateSubcategory(ctx context.Context, s *entity.Subcategory) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO subcategories (id, category_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.CategoryID, s.Name, s.CreatedAt,
	)
	if err != nil {
		return translateError(err, "insert subcategory")
	}
	return nil
}

func (r *CategoryRepo) GetSubcategory(ctx context.Context, id string) (*entity.Subcategory, error) {
	return r.findSubcategory(ctx, `SELECT id, category_id, name, created_at FROM subcategories WHERE id = $1`, id)
}

func (r *CategoryRepo) GetSubcategoryByName(ctx context.Context, categoryID, name string) (*entity.Subcategory, error) {
	return r.findSubcategory(ctx,
		`SELECT id, category_id, name, created_at FROM subcategories WHERE category_id = $1 AND lower(name) = lower($2)`,
		categoryID, name,
	)
}

func (r *CategoryRepo) findSubcategory(ctx context.Context, query string, args ...any) (*entity.Subcategory, error) {
	var s entity.Subcategory
	if err := r.q.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CategoryID, &s.Name, &s.CreatedAt); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "get subcategory")
	}
	return &s, nil
}

func (r *CategoryRepo) RenameSubcategory(ctx context.Context, id, name string) error {
	tag, err := r.q.Exec(ctx, `UPDATE subcategories SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return translateError(err, "rename subcategory")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) DeleteSubcategory(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM subcategories WHERE id = $1`, id); err != nil {
		return translateError(err, "delete subcategory")
	}
	return nil
}

func (r *CategoryRepo) DeleteSubcategoriesByCategory(ctx context.Context, categoryID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM subcategories WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, translateError(err, "delete subcategories")
	}
	return int(tag.RowsAffected()), nil
}
