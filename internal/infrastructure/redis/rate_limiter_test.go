package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/pkg/config"
)

func unreachable() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRateLimiter_SinRedisDevuelveError(t *testing.T) {
	client := unreachable()
	defer client.Close()

	l := NewRateLimiter(client, 3, time.Minute)
	ok, err := l.Allow(context.Background(), "u1")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestNewClient_FallaSiNoHayServidor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewClient(ctx, config.RateLimitConfig{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func miniRateLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(client, limit, window)
	l.now = func() time.Time { return now }
	return l, mr, &now
}

func TestRateLimiter_VentanaDeslizante(t *testing.T) {
	l, _, now := miniRateLimiter(t, 2, time.Minute)
	base := *now
	ctx := context.Background()

	ok, err := l.Allow(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	*now = base.Add(30 * time.Second)
	ok, _ = l.Allow(ctx, "u1")
	assert.True(t, ok)
	ok, err = l.Allow(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "tercera petición dentro de la ventana")

	ok, _ = l.Allow(ctx, "u2")
	assert.True(t, ok, "las claves son independientes")

	// la primera petición sale de la ventana; la segunda sigue dentro
	*now = base.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "u1")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "u1")
	assert.False(t, ok)
}

func TestRateLimiter_RechazoNoOcupaLugar(t *testing.T) {
	l, mr, now := miniRateLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		require.True(t, ok)
		*now = now.Add(time.Second)
	}
	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	members, err := mr.ZMembers(keyPrefix + "u1")
	require.NoError(t, err)
	assert.Len(t, members, 2, "los rechazos se retiran del ZSET")
	assert.True(t, mr.Exists(keyPrefix+"u1"))
	assert.Positive(t, mr.TTL(keyPrefix+"u1"))
}

func TestRateLimiter_ClaveExpiraConLaVentana(t *testing.T) {
	l, mr, _ := miniRateLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "u1")
	require.True(t, ok)
	mr.FastForward(time.Minute + time.Second)
	assert.False(t, mr.Exists(keyPrefix+"u1"))
}
