package dto

import "time"

// RegisterMovementRequest entrada para registrar un movimiento de stock.
// entry suma, exit resta y adjustment fija el stock en Quantity.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	Reason      string    `json:"reason"`
	Reference   string    `json:"reference,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListQuery filtros del listado de movimientos.
type MovementListQuery struct {
	PageRequest
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
	From      string `query:"from"`
	To        string `query:"to"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items      []MovementResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}
