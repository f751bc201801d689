package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ventas/internal/application/inventory"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
	_ usecase.TxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	queryTimeout   time.Duration
}

// NewTxRunner construye el runner. acquireTimeout acota la espera por una conexión del pool;
// queryTimeout acota la transacción completa. Cero desactiva cada límite.
func NewTxRunner(pool *pgxpool.Pool, acquireTimeout, queryTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, acquireTimeout: acquireTimeout, queryTimeout: queryTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La conexión vuelve al pool en todos los caminos de salida.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepos) error) error {
	if r.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.queryTimeout)
		defer cancel()
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return translateError(err, "begin transaction")
	}
	// el rollback corre aunque ctx ya esté cancelado
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	repos := repository.TxRepos{
		Products:   NewProductRepository(tx),
		Movements:  NewStockMovementRepository(tx),
		Sales:      NewSaleRepository(tx),
		Categories: NewCategoryRepository(tx),
		Users:      NewUserRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(err, "commit transaction")
	}
	return nil
}

func (r *TxRunner) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	actx := ctx
	if r.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.acquireTimeout)
		defer cancel()
	}
	conn, err := r.pool.Acquire(actx)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", translateError(err, "obtener conexión"))
	}
	return conn, nil
}
