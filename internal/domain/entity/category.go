package entity

import "time"

// Category agrupa productos; tiene subcategorías.
type Category struct {
	ID            string
	Name          string
	CreatedAt     time.Time
	Subcategories []*Subcategory
}

// Subcategory pertenece a una Category.
type Subcategory struct {
	ID         string
	CategoryID string
	Name       string
	CreatedAt  time.Time
}
