package entity

import "github.com/shopspring/decimal"

// SalesStats métricas agregadas de ventas en un rango.
type SalesStats struct {
	Transactions     int
	Lines            int
	UnitsSold        int
	Revenue          decimal.Decimal // ya descontado
	Discounts        decimal.Decimal
	DistinctProducts int
	ActiveSellers    int
}

// TopProduct producto por unidades vendidas.
type TopProduct struct {
	ProductID string
	Name      string
	Units     int
	Revenue   decimal.Decimal
}

// InventorySummary foto del inventario.
type InventorySummary struct {
	TotalProducts int
	OutOfStock    int
	LowStock      int
	TotalUnits    int
	ValueCUP      decimal.Decimal
}
