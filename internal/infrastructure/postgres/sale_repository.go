package postgres

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT s.id, s.transaction_id, s.product_id, s.quantity, s.unit_price, s.total_price, s.discount,
	       s.payment_method, s.notes, s.user_id, s.created_at,
	       COALESCE(p.name, ''), COALESCE(u.username, '')
	FROM sales s
	LEFT JOIN products p ON p.id = s.product_id
	LEFT JOIN users u ON u.id = s.user_id`

// SaleRepo líneas de venta sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.TransactionID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.TotalPrice, &s.Discount,
		&s.PaymentMethod, &s.Notes, &s.UserID, &s.CreatedAt,
		&s.ProductName, &s.Username,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta una línea de venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, transaction_id, product_id, quantity, unit_price, total_price, discount,
		                   payment_method, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TransactionID, s.ProductID, s.Quantity, s.UnitPrice, s.TotalPrice, s.Discount,
		s.PaymentMethod, s.Notes, s.UserID, s.CreatedAt,
	)
	if err != nil {
		return translateError(err, "insert sale")
	}
	return nil
}

// GetByID obtiene una línea por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "get sale")
	}
	return s, nil
}

// ListByTransaction líneas de una venta en orden de inserción.
func (r *SaleRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, saleSelect+` WHERE s.transaction_id = $1 ORDER BY s.seq`, transactionID)
	if err != nil {
		return nil, translateError(err, "list sale lines")
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, translateError(err, "scan sale")
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "list sale lines")
	}
	return list, nil
}

// List líneas de venta de la más reciente a la más antigua.
func (r *SaleRepo) List(ctx context.Context, f entity.SaleFilter) ([]*entity.Sale, int, error) {
	var w where
	if f.From != nil {
		w.add("s.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("s.created_at <= ?", *f.To)
	}
	if f.UserID != "" {
		w.add("s.user_id = ?", f.UserID)
	}
	if f.PaymentMethod != "" {
		w.add("s.payment_method = ?", f.PaymentMethod)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales s`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, translateError(err, "count sales")
	}

	query := saleSelect + w.sql() + ` ORDER BY s.created_at DESC, s.seq DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, translateError(err, "list sales")
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, translateError(err, "scan sale")
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, "list sales")
	}
	return list, total, nil
}

// CountByUser líneas registradas por el usuario.
func (r *SaleRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, translateError(err, "count sales by user")
	}
	return n, nil
}

// CountByProduct líneas que referencian el producto.
func (r *SaleRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, translateError(err, "count sales by product")
	}
	return n, nil
}
