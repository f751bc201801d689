package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ventas/pkg/config"
)

// NewPool crea el pool de conexiones PostgreSQL con los tamaños y timeouts de la configuración.
// Falla si la BD no responde al ping dentro de ConnectTimeout.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Hour
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}
	poolConfig.HealthCheckPeriod = time.Minute
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	// Registrar codec para NUMERIC -> shopspring/decimal (todas las conexiones del pool).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", translateError(err, "ping"))
	}
	return pool, nil
}

// Probe expone ping y estadísticas del pool para health e información del sistema.
type Probe struct {
	pool *pgxpool.Pool
}

// NewProbe envuelve el pool.
func NewProbe(pool *pgxpool.Pool) *Probe {
	return &Probe{pool: pool}
}

// Ping verifica la conexión con la BD.
func (p *Probe) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Stats conexiones totales, ociosas, en uso y máximo configurado.
func (p *Probe) Stats() (total, idle, acquired, max int32) {
	s := p.pool.Stat()
	return s.TotalConns(), s.IdleConns(), s.AcquiredConns(), s.MaxConns()
}
