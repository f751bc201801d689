package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// SessionRepository es el almacenamiento durable de sesiones (fuente de verdad).
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	// GetByToken devuelve la sesión con la identidad de su usuario, o (nil, nil) si no existe.
	GetByToken(ctx context.Context, token string) (*entity.Session, error)
	Deactivate(ctx context.Context, token string) error
	DeactivateByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
