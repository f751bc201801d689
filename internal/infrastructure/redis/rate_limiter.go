package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/pkg/config"
)

var _ auth.RateLimiter = (*RateLimiter)(nil)

const keyPrefix = "ratelimit:"

// RateLimiter ventana deslizante compartida entre réplicas: un ZSET por usuario con
// el instante de cada petición como score.
type RateLimiter struct {
	client *goredis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RateLimitConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

// NewRateLimiter como máximo limit peticiones por window y usuario.
func NewRateLimiter(client *goredis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow registra la petición y la rechaza si la ventana ya está llena. Una petición
// rechazada no ocupa lugar en la ventana.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	k := keyPrefix + key
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-l.window).UnixNano(), 10)

	var card *goredis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, k, "-inf", cutoff)
		p.ZAdd(ctx, k, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		card = p.ZCard(ctx, k)
		p.PExpire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	if card.Val() > int64(l.limit) {
		if err := l.client.ZRem(ctx, k, member).Err(); err != nil {
			return false, fmt.Errorf("rate limit: %w", err)
		}
		return false, nil
	}
	return true, nil
}
