package dto

// CategoryRequest nombre de categoría o subcategoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// SubcategoryResponse salida de subcategoría.
type SubcategoryResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// CategoryResponse salida de categoría con sus subcategorías.
type CategoryResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}
