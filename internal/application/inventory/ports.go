package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepos) error) error
}
