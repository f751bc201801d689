package usecase

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepos) error) error
}

// SessionRevoker revoca todas las sesiones de un usuario.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}
