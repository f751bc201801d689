package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// Sessions es lo que el gateway necesita del registro de sesiones.
type Sessions interface {
	Issue(ctx context.Context, user entity.Identity) (*entity.Session, error)
	Validate(ctx context.Context, token string) (entity.Identity, error)
	Revoke(ctx context.Context, token string) error
}

// RateLimiter cuenta peticiones por clave en una ventana deslizante.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Gateway traduce credenciales y tokens en identidades autorizadas.
type Gateway struct {
	users    repository.UserRepository
	sessions Sessions
	limiter  RateLimiter
	log      zerolog.Logger
	verbose  bool

	dummyOnce sync.Once
	dummyHash []byte
}

// Option configura el gateway.
type Option func(*Gateway)

// WithRateLimiter activa el límite de peticiones por usuario.
func WithRateLimiter(l RateLimiter) Option {
	return func(g *Gateway) { g.limiter = l }
}

// WithVerboseErrors expone el detalle de errores internos en Result (solo development).
func WithVerboseErrors(v bool) Option {
	return func(g *Gateway) { g.verbose = v }
}

// NewGateway construye el gateway de autenticación.
func NewGateway(users repository.UserRepository, sessions Sessions, log zerolog.Logger, opts ...Option) *Gateway {
	g := &Gateway{users: users, sessions: sessions, log: log}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Login verifica usuario y contraseña (bcrypt) y emite una sesión.
// Usuario inexistente, inactivo o contraseña errónea devuelven el mismo ErrInvalidCredentials.
func (g *Gateway) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.NewValidation("CREDENTIALS_REQUIRED", "usuario y contraseña son requeridos")
	}

	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Igualar el costo de bcrypt para no revelar si el usuario existe.
		_ = bcrypt.CompareHashAndPassword(g.dummy(), []byte(password))
		g.log.Info().Str("username", username).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil || !user.Active {
		g.log.Info().Str("username", username).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}

	id := entity.IdentityOf(user)
	s, err := g.sessions.Issue(ctx, id)
	if err != nil {
		return nil, err
	}
	g.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login exitoso")
	return &dto.LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      ToIdentityDTO(id),
	}, nil
}

// Logout revoca la sesión. Siempre tiene éxito para el llamador; los fallos solo se registran.
func (g *Gateway) Logout(ctx context.Context, token string) {
	if err := g.sessions.Revoke(ctx, token); err != nil {
		g.log.Warn().Err(err).Msg("logout: no se pudo revocar la sesión")
	}
}

// ValidateSession resuelve la identidad del token sin aplicar límite de peticiones.
func (g *Gateway) ValidateSession(ctx context.Context, token string) (entity.Identity, error) {
	if token == "" {
		return entity.Identity{}, domain.ErrMissingToken
	}
	return g.sessions.Validate(ctx, token)
}

// RequireAuth exige un token válido y aplica el límite de peticiones por usuario.
func (g *Gateway) RequireAuth(ctx context.Context, token string) (entity.Identity, error) {
	id, err := g.ValidateSession(ctx, token)
	if err != nil {
		return entity.Identity{}, err
	}
	if g.limiter != nil {
		ok, err := g.limiter.Allow(ctx, id.UserID)
		if err != nil {
			g.log.Warn().Err(err).Str("user_id", id.UserID).Msg("rate limiter no disponible; se permite la petición")
		} else if !ok {
			g.log.Warn().Str("user_id", id.UserID).Msg("límite de peticiones excedido")
			return entity.Identity{}, domain.ErrRateLimited
		}
	}
	return id, nil
}

// RequireAdmin falla con ErrForbidden si la identidad no es admin.
func (g *Gateway) RequireAdmin(id entity.Identity) error {
	if !id.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func (g *Gateway) dummy() []byte {
	g.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)
		if err != nil {
			panic(fmt.Sprintf("bcrypt: %v", err))
		}
		g.dummyHash = h
	})
	return g.dummyHash
}

// ToIdentityDTO convierte la identidad a su DTO.
func ToIdentityDTO(id entity.Identity) dto.UserIdentity {
	return dto.UserIdentity{ID: id.UserID, Username: id.Username, Role: id.Role}
}
