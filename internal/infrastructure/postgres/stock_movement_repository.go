package postgres

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo log append-only de movimientos de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, product_name, type, quantity, stock_before, stock_after,
		                             reason, reference, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.ProductName, m.Type, m.Quantity, m.StockBefore, m.StockAfter,
		m.Reason, m.Reference, m.UserID, m.CreatedAt,
	)
	if err != nil {
		return translateError(err, "insert stock movement")
	}
	return nil
}

// List movimientos del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.StockMovement, int, error) {
	var w where
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, translateError(err, "count stock movements")
	}

	query := `
		SELECT id, product_id, product_name, type, quantity, stock_before, stock_after,
		       reason, COALESCE(reference, ''), COALESCE(user_id, ''), created_at
		FROM stock_movements` + w.sql() +
		` ORDER BY created_at DESC, seq DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, translateError(err, "list stock movements")
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity, &m.StockBefore, &m.StockAfter,
			&m.Reason, &m.Reference, &m.UserID, &m.CreatedAt,
		); err != nil {
			return nil, 0, translateError(err, "scan stock movement")
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, "list stock movements")
	}
	return list, total, nil
}
