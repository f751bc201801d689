package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/domain"
)

// poolOcupado simula un pool sin conexiones libres: toda llamada espera a que ctx termine.
type poolOcupado struct {
	ctxs []context.Context
}

func (p *poolOcupado) Exec(ctx context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	p.ctxs = append(p.ctxs, ctx)
	<-ctx.Done()
	return pgconn.CommandTag{}, ctx.Err()
}

func (p *poolOcupado) Query(ctx context.Context, _ string, _ ...any) (pgx.Rows, error) {
	p.ctxs = append(p.ctxs, ctx)
	return filasVacias{}, nil
}

func (p *poolOcupado) QueryRow(ctx context.Context, _ string, _ ...any) pgx.Row {
	p.ctxs = append(p.ctxs, ctx)
	return filaEsperando{ctx: ctx}
}

type filasVacias struct{ pgx.Rows }

func (filasVacias) Close() {}

type filaEsperando struct{ ctx context.Context }

func (f filaEsperando) Scan(...any) error {
	<-f.ctx.Done()
	return f.ctx.Err()
}

func TestTimeoutQuerier_PoolAgotadoDevuelveTimeout(t *testing.T) {
	inner := &poolOcupado{}
	q := NewTimeoutQuerier(inner, 20*time.Millisecond)

	start := time.Now()
	_, err := q.Exec(context.Background(), "UPDATE x")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "DB_TIMEOUT", codeOf(translateError(err, "exec")))

	var n int
	err = q.QueryRow(context.Background(), "SELECT 1").Scan(&n)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimeoutQuerier_DeadlineVivoHastaCerrarFilas(t *testing.T) {
	inner := &poolOcupado{}
	q := NewTimeoutQuerier(inner, time.Minute)

	rows, err := q.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.Len(t, inner.ctxs, 1)
	ctx := inner.ctxs[0]
	_, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.NoError(t, ctx.Err(), "las filas siguen leyéndose")

	rows.Close()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestTimeoutQuerier_RespetaDeadlineMasCorto(t *testing.T) {
	inner := &poolOcupado{}
	q := NewTimeoutQuerier(inner, time.Hour)
	parent, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Exec(parent, "UPDATE x")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewTimeoutQuerier_SinTimeoutNoEnvuelve(t *testing.T) {
	inner := &poolOcupado{}
	assert.Same(t, inner, NewTimeoutQuerier(inner, 0))
}

func codeOf(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
