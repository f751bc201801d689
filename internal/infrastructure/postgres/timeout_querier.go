package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TimeoutQuerier acota cada llamada al pool: la espera por una conexión y la consulta
// comparten un deadline de timeout. Los repositorios fuera de una transacción se arman
// sobre él para no colgarse con el pool agotado.
type TimeoutQuerier struct {
	q       Querier
	timeout time.Duration
}

// NewTimeoutQuerier envuelve q. timeout <= 0 devuelve q sin cambios.
func NewTimeoutQuerier(q Querier, timeout time.Duration) Querier {
	if timeout <= 0 {
		return q
	}
	return &TimeoutQuerier{q: q, timeout: timeout}
}

func (t *TimeoutQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.q.Exec(ctx, sql, args...)
}

// Query mantiene el deadline vivo hasta que se cierran las filas.
func (t *TimeoutQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	rows, err := t.q.Query(ctx, sql, args...)
	if err != nil {
		cancel()
		return nil, err
	}
	return &timeoutRows{Rows: rows, cancel: cancel}, nil
}

// QueryRow mantiene el deadline vivo hasta el Scan.
func (t *TimeoutQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	return &timeoutRow{row: t.q.QueryRow(ctx, sql, args...), cancel: cancel}
}

type timeoutRows struct {
	pgx.Rows
	cancel context.CancelFunc
}

func (r *timeoutRows) Close() {
	r.Rows.Close()
	r.cancel()
}

type timeoutRow struct {
	row    pgx.Row
	cancel context.CancelFunc
}

func (r *timeoutRow) Scan(dest ...any) error {
	defer r.cancel()
	return r.row.Scan(dest...)
}
