package entity

import "time"

// Session es el registro durable de una sesión. Token es opaco (hex de 32 bytes aleatorios).
// User se completa al leer la sesión junto con su usuario.
type Session struct {
	ID        string
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Active    bool
	User      Identity
	UserOK    bool // el usuario existe y está activo
}

// ValidAt indica si la sesión es válida en el instante now.
func (s *Session) ValidAt(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}
