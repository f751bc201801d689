package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimiter ventana deslizante en memoria por clave. Sirve para un solo proceso;
// con varias réplicas usar el limitador sobre Redis.
type MemoryRateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	hits  map[string][]time.Time
	calls int
}

// NewMemoryRateLimiter construye el limitador: como máximo limit peticiones por window.
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{limit: limit, window: window, now: time.Now, hits: map[string][]time.Time{}}
}

// Allow registra una petición de key y devuelve false si supera el máximo de la ventana.
func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%1000 == 0 {
		l.gc(cutoff)
	}

	hits := prune(l.hits[key], cutoff)
	if len(hits) >= l.limit {
		l.hits[key] = hits
		return false, nil
	}
	l.hits[key] = append(hits, now)
	return true, nil
}

// gc elimina claves sin peticiones dentro de la ventana.
func (l *MemoryRateLimiter) gc(cutoff time.Time) {
	for k, hits := range l.hits {
		if len(prune(hits, cutoff)) == 0 {
			delete(l.hits, k)
		}
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
