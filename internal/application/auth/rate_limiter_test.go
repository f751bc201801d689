package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimiter_VentanaDeslizante(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewMemoryRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "u1")
	assert.True(t, ok)
	now = base.Add(30 * time.Second)
	ok, _ = l.Allow(ctx, "u1")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "u1")
	assert.False(t, ok, "tercera petición dentro de la ventana")

	ok, _ = l.Allow(ctx, "u2")
	assert.True(t, ok, "las claves son independientes")

	// la primera petición sale de la ventana; la segunda sigue dentro
	now = base.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "u1")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "u1")
	assert.False(t, ok)
}

func TestMemoryRateLimiter_GCEliminaClavesInactivas(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter(5, time.Second)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "viejo")
	now = now.Add(time.Minute)
	l.gc(now.Add(-time.Second))

	assert.NotContains(t, l.hits, "viejo")
}
