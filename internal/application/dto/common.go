package dto

import "time"

// Límites de paginación.
const (
	DefaultLimit = 100
	MinLimit     = 10
	MaxLimit     = 1000
)

// PageRequest paginación por página (1-based) para listados.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto y acota Limit a [MinLimit, MaxLimit].
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit < MinLimit:
		p.Limit = MinLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
}

// Offset desplazamiento equivalente a la página.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages cantidad de páginas para total elementos.
func (p PageRequest) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// SuccessResponse envoltorio de respuesta exitosa.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// ParseDateParam interpreta una fecha de query (RFC3339 o YYYY-MM-DD). Vacío devuelve nil.
// Con endOfDay, una fecha sin hora se lleva al último instante del día.
func ParseDateParam(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
