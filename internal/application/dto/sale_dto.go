package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. UnitPrice nulo usa el price_cup del producto.
type SaleLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// RegisterSaleRequest entrada para registrar una venta de una o más líneas.
type RegisterSaleRequest struct {
	Lines         []SaleLineRequest `json:"lines"`
	PaymentMethod string            `json:"payment_method"`
	Discount      decimal.Decimal   `json:"discount"`
	Notes         string            `json:"notes"`
}

// SaleResponse salida de una línea de venta.
type SaleResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	UserID        string          `json:"user_id"`
	Username      string          `json:"username,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleResultResponse resultado de registrar una venta.
type SaleResultResponse struct {
	TransactionID       string          `json:"transaction_id"`
	LineItems           []SaleResponse  `json:"lineItems"`
	Total               decimal.Decimal `json:"total"`
	TotalBeforeDiscount decimal.Decimal `json:"totalBeforeDiscount"`
	Discount            decimal.Decimal `json:"discount"`
}

// SaleListQuery filtros del listado de ventas.
type SaleListQuery struct {
	PageRequest
	From          string `query:"from"`
	To            string `query:"to"`
	UserID        string `query:"user_id"`
	PaymentMethod string `query:"payment_method"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items      []SaleResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

// ReceiptResponse comprobante de una venta (todas sus líneas).
type ReceiptResponse struct {
	TransactionID       string          `json:"transaction_id"`
	Date                time.Time       `json:"date"`
	Seller              string          `json:"seller"`
	PaymentMethod       string          `json:"payment_method"`
	Notes               string          `json:"notes,omitempty"`
	Lines               []SaleResponse  `json:"lines"`
	TotalBeforeDiscount decimal.Decimal `json:"totalBeforeDiscount"`
	Discount            decimal.Decimal `json:"discount"`
	Total               decimal.Decimal `json:"total"`
}
