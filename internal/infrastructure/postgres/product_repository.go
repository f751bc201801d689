package postgres

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productSelect = `
	SELECT p.id, p.name, p.description, p.category_id, COALESCE(p.subcategory_id, ''),
	       p.stock, p.quantity, p.extractions, p.defective,
	       p.price_usd, p.price_cup, p.other_price_cup, p.pxg_cup,
	       p.created_at, p.updated_at,
	       COALESCE(c.name, ''), COALESCE(s.name, '')
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN subcategories s ON s.id = p.subcategory_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.SubcategoryID,
		&p.Stock, &p.Quantity, &p.Extractions, &p.Defective,
		&p.PriceUSD, &p.PriceCUP, &p.OtherPriceCUP, &p.PxgCUP,
		&p.CreatedAt, &p.UpdatedAt,
		&p.CategoryName, &p.SubcategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, category_id, subcategory_id, stock, quantity, extractions,
		                      defective, price_usd, price_cup, other_price_cup, pxg_cup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.CategoryID, p.SubcategoryID, p.Stock, p.Quantity, p.Extractions,
		p.Defective, p.PriceUSD, p.PriceCUP, p.OtherPriceCUP, p.PxgCUP, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "insert product")
	}
	return nil
}

// GetByID obtiene un producto por ID con los nombres de categoría y subcategoría.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "get product")
	}
	return p, nil
}

// GetForUpdate bloquea la fila del producto (SELECT ... FOR UPDATE OF p) hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "lock product")
	}
	return p, nil
}

// Update guarda todos los campos editables, incluido el stock. Solo el ledger llama con stock distinto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, category_id = $4, subcategory_id = NULLIF($5, ''),
		       stock = $6, quantity = $7, extractions = $8, defective = $9, price_usd = $10, price_cup = $11,
		       other_price_cup = $12, pxg_cup = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.CategoryID, p.SubcategoryID, p.Stock, p.Quantity, p.Extractions,
		p.Defective, p.PriceUSD, p.PriceCUP, p.OtherPriceCUP, p.PxgCUP, p.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List lista productos con filtros; Search busca en nombre y descripción (ILIKE).
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	var w where
	if f.CategoryID != "" {
		w.add("p.category_id = ?", f.CategoryID)
	}
	if f.SubcategoryID != "" {
		w.add("p.subcategory_id = ?", f.SubcategoryID)
	}
	if f.Search != "" {
		w.add(`(p.name ILIKE ? ESCAPE '\' OR p.description ILIKE ? ESCAPE '\')`, containsPattern(f.Search))
	}
	if !f.IncludeOutOfStock {
		w.conds = append(w.conds, "p.stock > 0")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, translateError(err, "count products")
	}

	query := productSelect + w.sql() + ` ORDER BY p.name, p.id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, translateError(err, "list products")
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, translateError(err, "scan product")
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, "list products")
	}
	return list, total, nil
}

// Delete elimina el producto. Sus movimientos quedan en el log.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return translateError(err, "delete product")
	}
	return nil
}

// CountByCategory cantidad de productos de la categoría.
func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, translateError(err, "count products by category")
	}
	return n, nil
}

// CountBySubcategory cantidad de productos de la subcategoría.
func (r *ProductRepo) CountBySubcategory(ctx context.Context, subcategoryID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE subcategory_id = $1`, subcategoryID).Scan(&n); err != nil {
		return 0, translateError(err, "count products by subcategory")
	}
	return n, nil
}
