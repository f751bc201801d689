package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetBy* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, int, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (entity.UserStats, error)
	// Activity cuenta solo sesiones activas y no vencidas en now; ordena por la más reciente.
	Activity(ctx context.Context, now time.Time, limit int) ([]entity.UserActivity, error)
}
