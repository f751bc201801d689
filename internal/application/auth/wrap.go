package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// Operation operación de negocio que recibe la identidad ya resuelta.
type Operation func(ctx context.Context, user entity.Identity) (any, error)

// Result forma uniforme de respuesta. Ningún error ni panic cruza este límite.
type Result struct {
	Success bool        `json:"success"`
	Data    any         `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    domain.Kind `json:"-"`
}

// Guarded operación envuelta: recibe el token y devuelve siempre un Result.
type Guarded func(ctx context.Context, token string) Result

// WithAuth envuelve op exigiendo sesión válida.
func (g *Gateway) WithAuth(op Operation) Guarded {
	return g.wrap(op, false)
}

// WithAdminAuth envuelve op exigiendo sesión válida de un admin.
func (g *Gateway) WithAdminAuth(op Operation) Guarded {
	return g.wrap(op, true)
}

func (g *Gateway) wrap(op Operation, admin bool) Guarded {
	return func(ctx context.Context, token string) (res Result) {
		defer func() {
			if r := recover(); r != nil {
				g.log.Error().Interface("panic", r).Msg("operación abortada por panic")
				res = g.Fail(fmt.Errorf("panic: %v", r))
			}
		}()

		id, err := g.RequireAuth(ctx, token)
		if err != nil {
			return g.Fail(err)
		}
		if admin {
			if err := g.RequireAdmin(id); err != nil {
				g.log.Warn().Str("user_id", id.UserID).Msg("acceso admin denegado")
				return g.Fail(err)
			}
		}
		data, err := op(ctx, id)
		if err != nil {
			return g.Fail(err)
		}
		return Result{Success: true, Data: data}
	}
}

// Fail convierte cualquier error al Result uniforme.
func (g *Gateway) Fail(err error) Result {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal || kind == domain.KindStorage {
		g.log.Error().Err(err).Msg("error en operación")
	}
	code, msg := domain.Public(err, g.verbose)
	return Result{Success: false, Code: code, Error: msg, Kind: kind}
}
