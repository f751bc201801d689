package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// Locals keys para la identidad y el token en Fiber.
const (
	LocalIdentity = "identity"
	LocalToken    = "token"
)

// AuthMiddleware valida el Bearer token contra el registro de sesiones, aplica el límite
// de peticiones y deja la identidad en c.Locals. El resto de la cadena corre dentro de
// gw.WithAuth, así que un panic en el handler termina en el Result uniforme.
func AuthMiddleware(gw *auth.Gateway) fiber.Handler {
	return guard(gw, gw.WithAuth)
}

// AdminMiddleware igual que AuthMiddleware pero exige rol admin.
func AdminMiddleware(gw *auth.Gateway) fiber.Handler {
	return guard(gw, gw.WithAdminAuth)
}

func guard(gw *auth.Gateway, with func(auth.Operation) auth.Guarded) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return fail(c, gw, err)
		}
		var nextErr error
		res := with(func(_ context.Context, id entity.Identity) (any, error) {
			c.Locals(LocalIdentity, id)
			c.Locals(LocalToken, token)
			nextErr = c.Next()
			return nil, nil
		})(c.Context(), token)
		if !res.Success {
			return writeResult(c, res)
		}
		return nextErr
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) entity.Identity {
	id, _ := c.Locals(LocalIdentity).(entity.Identity)
	return id
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string {
	return GetIdentity(c).UserID
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &domain.Error{Kind: domain.KindAuthentication, Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrMissingToken
	}
	return token, nil
}
