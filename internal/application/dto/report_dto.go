package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesStatsDTO métricas de ventas del período.
type SalesStatsDTO struct {
	Transactions     int             `json:"transactions"`
	Lines            int             `json:"lines"`
	UnitsSold        int             `json:"units_sold"`
	Revenue          decimal.Decimal `json:"revenue"`
	Discounts        decimal.Decimal `json:"discounts"`
	AverageTicket    decimal.Decimal `json:"average_ticket"`
	DistinctProducts int             `json:"distinct_products"`
	ActiveSellers    int             `json:"active_sellers"`
}

// TopProductDTO producto más vendido.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// InventorySummaryDTO foto del inventario.
type InventorySummaryDTO struct {
	TotalProducts int             `json:"total_products"`
	OutOfStock    int             `json:"out_of_stock"`
	LowStock      int             `json:"low_stock"`
	TotalUnits    int             `json:"total_units"`
	ValueCUP      decimal.Decimal `json:"value_cup"`
}

// ReportSummaryResponse resumen del reporte.
type ReportSummaryResponse struct {
	From        time.Time           `json:"from"`
	To          time.Time           `json:"to"`
	Sales       SalesStatsDTO       `json:"sales"`
	TopProducts []TopProductDTO     `json:"top_products"`
	Inventory   InventorySummaryDTO `json:"inventory"`
}

// SystemInfoResponse información del sistema (solo admin).
type SystemInfoResponse struct {
	App            string    `json:"app"`
	Env            string    `json:"env"`
	StartedAt      time.Time `json:"started_at"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	DBTotalConns   int32     `json:"db_total_conns"`
	DBIdleConns    int32     `json:"db_idle_conns"`
	DBAcquired     int32     `json:"db_acquired_conns"`
	DBMaxConns     int32     `json:"db_max_conns"`
	CachedSessions int       `json:"cached_sessions"`
}
