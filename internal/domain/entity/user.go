package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema. PasswordHash es bcrypt.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol admin.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Identity es la identidad resuelta de una sesión válida (lo que ve el resto de la app).
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin indica si la identidad tiene rol admin.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// IdentityOf arma la identidad a partir del usuario.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// UserStats cantidad de usuarios por rol.
type UserStats struct {
	Total   int
	Admins  int
	Regular int
}

// UserActivity usuario con sus sesiones vigentes. LastSession es nil si nunca tuvo una activa.
type UserActivity struct {
	UserID         string
	Username       string
	Role           string
	ActiveSessions int
	LastSession    *time.Time
}
