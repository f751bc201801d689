package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceRequest entrada para crear un servicio.
type ServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateServiceRequest campos opcionales a modificar.
type UpdateServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Active      *bool            `json:"active"`
}

// ServiceResponse salida de servicio.
type ServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}
