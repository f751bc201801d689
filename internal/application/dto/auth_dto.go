package dto

import "time"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token opaco de sesión y usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserIdentity `json:"user"`
}

// UserIdentity identidad del usuario de la sesión.
type UserIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
