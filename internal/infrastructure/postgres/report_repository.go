package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para el resumen de ventas e inventario.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesStats agrega las líneas de venta del rango [from, to].
// Revenue = Σ total_price - Σ discount.
func (r *ReportRepo) SalesStats(ctx context.Context, from, to time.Time) (*entity.SalesStats, error) {
	query := `
		SELECT
			COUNT(DISTINCT transaction_id),
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(total_price - discount), 0),
			COALESCE(SUM(discount), 0),
			COUNT(DISTINCT product_id),
			COUNT(DISTINCT user_id)
		FROM sales
		WHERE created_at BETWEEN $1 AND $2`
	var st entity.SalesStats
	err := r.q.QueryRow(ctx, query, from, to).Scan(
		&st.Transactions, &st.Lines, &st.UnitsSold, &st.Revenue, &st.Discounts,
		&st.DistinctProducts, &st.ActiveSellers,
	)
	if err != nil {
		return nil, translateError(err, "sales stats")
	}
	return &st, nil
}

// TopProducts productos más vendidos por unidades; empate por nombre.
func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error) {
	query := `
		SELECT s.product_id, COALESCE(p.name, ''), SUM(s.quantity), SUM(s.total_price)
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		WHERE s.created_at BETWEEN $1 AND $2
		GROUP BY s.product_id, p.name
		ORDER BY SUM(s.quantity) DESC, p.name
		LIMIT NULLIF($3::int, 0)`
	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, translateError(err, "top products")
	}
	defer rows.Close()
	out := []entity.TopProduct{}
	for rows.Next() {
		var tp entity.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.Units, &tp.Revenue); err != nil {
			return nil, translateError(err, "scan top product")
		}
		out = append(out, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "top products")
	}
	return out, nil
}

// InventorySummary foto actual del inventario valorizado a precio CUP.
func (r *ReportRepo) InventorySummary(ctx context.Context, lowThreshold int) (*entity.InventorySummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE stock <= 0),
			COUNT(*) FILTER (WHERE stock > 0 AND stock <= $1),
			COALESCE(SUM(stock), 0),
			COALESCE(SUM(price_cup * stock), 0)
		FROM products`
	var sum entity.InventorySummary
	err := r.q.QueryRow(ctx, query, lowThreshold).Scan(
		&sum.TotalProducts, &sum.OutOfStock, &sum.LowStock, &sum.TotalUnits, &sum.ValueCUP,
	)
	if err != nil {
		return nil, translateError(err, "inventory summary")
	}
	return &sum, nil
}
