package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock calculados para listados.
const (
	StockStatusOut    = "out_of_stock"
	StockStatusLow    = "low"
	StockStatusMedium = "medium"
	StockStatusHigh   = "high"
)

// Product representa un producto del inventario. Stock nunca es negativo y cada cambio
// de Stock queda acompañado por un StockMovement en la misma transacción.
type Product struct {
	ID            string
	Name          string
	Description   string
	CategoryID    string
	SubcategoryID string // vacío si no tiene
	Stock         int
	Quantity      int // unidades por empaque, >= 1
	Extractions   int
	Defective     int
	PriceUSD      decimal.Decimal
	PriceCUP      decimal.Decimal
	OtherPriceCUP decimal.Decimal
	PxgCUP        decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Solo lectura (joins).
	CategoryName    string
	SubcategoryName string
}

// StockStatus clasifica el stock según los umbrales bajo/medio.
func (p *Product) StockStatus(low, medium int) string {
	switch {
	case p.Stock <= 0:
		return StockStatusOut
	case p.Stock <= low:
		return StockStatusLow
	case p.Stock <= medium:
		return StockStatusMedium
	default:
		return StockStatusHigh
	}
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	CategoryID        string
	SubcategoryID     string
	Search            string
	IncludeOutOfStock bool
	Limit             int
	Offset            int
}
