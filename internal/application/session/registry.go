// Package session implementa el registro de sesiones: emisión, validación, revocación
// y barrido de tokens opacos. La BD es la fuente de verdad; el índice en memoria es una
// caché de lectura que se revalida pasado CacheTTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

const (
	// tokenBytes 32 bytes = 256 bits de entropía.
	tokenBytes = 32
	// maxRereads relecturas de Validate cuando una revocación se cruza con la lectura.
	maxRereads = 3
)

// Config parámetros del registro.
type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

type cached struct {
	session   entity.Session
	checkedAt time.Time
}

// Registry es dueño del índice en memoria; todo acceso pasa por mu.
type Registry struct {
	repo repository.SessionRepository
	cfg  Config
	log  zerolog.Logger
	now  func() time.Time

	mu    sync.RWMutex
	index map[string]*cached
	// gen sube con cada revocación; Validate solo cachea si no cambió durante su lectura de la BD
	gen uint64
}

// Option modifica el registro al construirlo.
type Option func(*Registry)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry construye el registro.
func NewRegistry(repo repository.SessionRepository, cfg Config, log zerolog.Logger, opts ...Option) *Registry {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 24 * time.Hour
	}
	r := &Registry{
		repo:  repo,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		index: make(map[string]*cached),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Issue crea una sesión para el usuario, la persiste y la indexa.
func (r *Registry) Issue(ctx context.Context, user entity.Identity) (*entity.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInternal, Code: "TOKEN_GENERATION", Message: "no se pudo generar el token", Err: err}
	}
	now := r.now()
	s := &entity.Session{
		ID:        uuid.New().String(),
		Token:     token,
		UserID:    user.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.cfg.Timeout),
		Active:    true,
		User:      user,
		UserOK:    true,
	}
	if err := r.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.index[token] = &cached{session: *s, checkedAt: now}
	r.mu.Unlock()

	r.log.Debug().Str("user_id", user.UserID).Str("token", prefix(token)).Time("expires_at", s.ExpiresAt).Msg("sesión emitida")
	return s, nil
}

// Validate resuelve la identidad del token. Falla con ErrSessionNotFound si el token no
// existe y con ErrSessionExpired si venció o fue desactivado; en ese caso lo saca del índice
// y lo marca inactivo en la BD.
func (r *Registry) Validate(ctx context.Context, token string) (entity.Identity, error) {
	if token == "" {
		return entity.Identity{}, domain.ErrSessionNotFound
	}
	now := r.now()

	r.mu.RLock()
	c, ok := r.index[token]
	var snap cached
	if ok {
		snap = *c
	}
	r.mu.RUnlock()

	if ok {
		if !snap.session.ValidAt(now) {
			r.expire(ctx, token)
			return entity.Identity{}, domain.ErrSessionExpired
		}
		if r.cfg.CacheTTL > 0 && now.Sub(snap.checkedAt) < r.cfg.CacheTTL {
			return snap.session.User, nil
		}
	}

	for attempt := 0; ; attempt++ {
		r.mu.RLock()
		seen := r.gen
		r.mu.RUnlock()

		s, err := r.repo.GetByToken(ctx, token)
		if err != nil {
			return entity.Identity{}, err
		}
		if s == nil {
			r.evict(token)
			return entity.Identity{}, domain.ErrSessionNotFound
		}
		if !s.ValidAt(now) || !s.UserOK {
			r.expire(ctx, token)
			return entity.Identity{}, domain.ErrSessionExpired
		}

		r.mu.Lock()
		if r.gen == seen {
			r.index[token] = &cached{session: *s, checkedAt: now}
			r.mu.Unlock()
			return s.User, nil
		}
		r.mu.Unlock()

		// hubo una revocación mientras se leía: la fila leída puede estar vieja
		if attempt >= maxRereads {
			return entity.Identity{}, domain.ErrSessionExpired
		}
	}
}

// Revoke desactiva la sesión. Es idempotente: un token desconocido o ya revocado no es error.
func (r *Registry) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	r.revoked(func() { delete(r.index, token) })
	err := r.repo.Deactivate(ctx, token)
	r.revoked(func() { delete(r.index, token) })
	if err != nil {
		return err
	}
	r.log.Debug().Str("token", prefix(token)).Msg("sesión revocada")
	return nil
}

// RevokeUser desactiva todas las sesiones del usuario.
func (r *Registry) RevokeUser(ctx context.Context, userID string) error {
	evictUser := func() {
		for tok, c := range r.index {
			if c.session.UserID == userID {
				delete(r.index, tok)
			}
		}
	}
	r.revoked(evictUser)
	err := r.repo.DeactivateByUser(ctx, userID)
	r.revoked(evictUser)
	if err != nil {
		return err
	}
	r.log.Info().Str("user_id", userID).Msg("sesiones del usuario revocadas")
	return nil
}

// SweepExpired borra de la BD las sesiones vencidas y purga el índice. Nunca falla:
// los errores de almacenamiento se registran y el barrido sigue en la próxima vuelta.
func (r *Registry) SweepExpired(ctx context.Context) int64 {
	now := r.now()

	r.mu.Lock()
	for tok, c := range r.index {
		if !c.session.ValidAt(now) {
			delete(r.index, tok)
		}
	}
	r.mu.Unlock()

	n, err := r.repo.DeleteExpired(ctx, now)
	if err != nil {
		r.log.Error().Err(err).Msg("barrido de sesiones vencidas")
		return 0
	}
	if n > 0 {
		r.log.Info().Int64("deleted", n).Msg("sesiones vencidas eliminadas")
	}
	return n
}

// Run ejecuta SweepExpired cada interval hasta que ctx termine.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.SweepExpired(ctx)
		}
	}
}

// Cached devuelve cuántas sesiones hay en el índice en memoria.
func (r *Registry) Cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.index)
}

// revoked aplica evict bajo mu y sube la generación. Se llama antes y después de escribir
// en la BD: una lectura que empezó antes de la escritura no llega a cachear.
func (r *Registry) revoked(evict func()) {
	r.mu.Lock()
	evict()
	r.gen++
	r.mu.Unlock()
}

func (r *Registry) evict(token string) {
	r.mu.Lock()
	delete(r.index, token)
	r.mu.Unlock()
}

func (r *Registry) expire(ctx context.Context, token string) {
	r.evict(token)
	if err := r.repo.Deactivate(ctx, token); err != nil {
		r.log.Warn().Err(err).Str("token", prefix(token)).Msg("no se pudo desactivar la sesión vencida")
	}
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// prefix recorta el token para logs.
func prefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
