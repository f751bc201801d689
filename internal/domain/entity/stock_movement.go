package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementEntry      = "entry"
	MovementExit       = "exit"
	MovementAdjustment = "adjustment"
)

// Motivos estándar de movimiento.
const (
	ReasonInitialStock   = "Stock inicial"
	ReasonManualAdjust   = "Ajuste manual"
	ReasonProductDeleted = "Producto eliminado"
	ReasonSale           = "Venta"
)

// StockMovement es el registro de auditoría inmutable de un cambio de stock.
// Quantity > 0; StockAfter-StockBefore = +Quantity en entry y -Quantity en exit.
type StockMovement struct {
	ID          string
	ProductID   string
	Type        string
	Quantity    int
	StockBefore int
	StockAfter  int
	Reason      string
	Reference   string // transaction_id de la venta, si aplica
	ProductName string // copia del nombre; el log sobrevive al borrado del producto
	UserID      string
	CreatedAt   time.Time
}

// Signed devuelve el cambio neto de stock que representa el movimiento.
func (m *StockMovement) Signed() int {
	switch m.Type {
	case MovementEntry:
		return m.Quantity
	case MovementExit:
		return -m.Quantity
	default:
		return m.StockAfter - m.StockBefore
	}
}

// ValidMovementType indica si el tipo es soportado.
func ValidMovementType(t string) bool {
	return t == MovementEntry || t == MovementExit || t == MovementAdjustment
}

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
