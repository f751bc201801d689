package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service es un servicio ofrecido que no maneja stock. Se elimina lógicamente (Active=false).
type Service struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
