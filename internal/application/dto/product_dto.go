package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear producto. PriceCUP nulo se deriva de PriceUSD y la tasa.
type CreateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	CategoryID    string           `json:"category_id"`
	SubcategoryID string           `json:"subcategory_id"`
	Stock         int              `json:"stock"`
	Quantity      *int             `json:"quantity"`
	Extractions   int              `json:"extractions"`
	Defective     int              `json:"defective"`
	PriceUSD      decimal.Decimal  `json:"price_usd"`
	PriceCUP      *decimal.Decimal `json:"price_cup"`
	OtherPriceCUP decimal.Decimal  `json:"other_price_cup"`
	PxgCUP        decimal.Decimal  `json:"pxg_cup"`
}

// ProductResponse salida de producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CategoryID      string          `json:"category_id"`
	CategoryName    string          `json:"category_name,omitempty"`
	SubcategoryID   string          `json:"subcategory_id,omitempty"`
	SubcategoryName string          `json:"subcategory_name,omitempty"`
	Stock           int             `json:"stock"`
	StockStatus     string          `json:"stock_status"`
	Quantity        int             `json:"quantity"`
	Extractions     int             `json:"extractions"`
	Defective       int             `json:"defective"`
	PriceUSD        decimal.Decimal `json:"price_usd"`
	PriceCUP        decimal.Decimal `json:"price_cup"`
	OtherPriceCUP   decimal.Decimal `json:"other_price_cup"`
	PxgCUP          decimal.Decimal `json:"pxg_cup"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListQuery filtros y paginación del listado.
type ProductListQuery struct {
	PageRequest
	CategoryID        string `query:"category_id"`
	SubcategoryID     string `query:"subcategory_id"`
	Search            string `query:"search"`
	IncludeOutOfStock *bool  `query:"include_out_of_stock"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}
