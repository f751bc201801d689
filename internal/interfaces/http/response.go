package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
)

// statusFor traduce el Kind del error a código HTTP.
func statusFor(res auth.Result) int {
	switch res.Kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindAuthentication:
		return fiber.StatusUnauthorized
	case domain.KindAuthorization:
		if res.Code == domain.ErrRateLimited.Code {
			return fiber.StatusTooManyRequests
		}
		return fiber.StatusForbidden
	case domain.KindBusiness:
		if strings.HasSuffix(res.Code, "NOT_FOUND") {
			return fiber.StatusNotFound
		}
		return fiber.StatusConflict
	case domain.KindStorage:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail escribe el error con la forma uniforme {success:false, code, error}.
func fail(c *fiber.Ctx, gw *auth.Gateway, err error) error {
	return writeResult(c, gw.Fail(err))
}

// writeResult escribe un Result fallido con el status que corresponde a su Kind.
func writeResult(c *fiber.Ctx, res auth.Result) error {
	return c.Status(statusFor(res)).JSON(dto.ErrorResponse{Code: res.Code, Error: res.Error})
}

// ok escribe {success:true, data}.
func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.SuccessResponse{Success: true, Data: data})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
}

func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Error: "parámetros inválidos"})
}

// ErrorHandler último recurso de Fiber: errores de ruteo (*fiber.Error) y cualquier error
// que un handler devuelva sin responder.
func ErrorHandler(gw *auth.Gateway) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "ROUTE_NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fiber.StatusRequestEntityTooLarge:
				code = "BODY_TOO_LARGE"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Error: fe.Message})
		}
		return fail(c, gw, err)
	}
}
