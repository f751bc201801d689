package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
	PaymentMixed    = "mixto"
)

// ValidPaymentMethod indica si el método de pago es aceptado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentMixed:
		return true
	}
	return false
}

// Sale es una línea de venta. Las líneas de una misma venta comparten TransactionID;
// el descuento se guarda solo en la primera línea.
type Sale struct {
	ID            string
	TransactionID string
	ProductID     string
	Quantity      int
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	Discount      decimal.Decimal
	PaymentMethod string
	Notes         string
	UserID        string
	CreatedAt     time.Time

	// Solo lectura (joins).
	ProductName string
	Username    string
}

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	UserID        string
	PaymentMethod string
	Limit         int
	Offset        int
}
