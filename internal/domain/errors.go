package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica un error de dominio. La capa HTTP despacha por Kind, nunca por el texto del mensaje.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindBusiness
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindBusiness:
		return "business"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Error es el error etiquetado del dominio. Code es estable (p. ej. INSUFFICIENT_STOCK) y Message es legible.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Code, así errors.Is(NewBusiness("NOT_FOUND", "..."), ErrNotFound) es true.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = &Error{Kind: KindBusiness, Code: "NOT_FOUND", Message: "recurso no encontrado"}
	ErrUserNotFound       = &Error{Kind: KindBusiness, Code: "USER_NOT_FOUND", Message: "usuario no encontrado"}
	ErrProductNotFound    = &Error{Kind: KindBusiness, Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"}
	ErrCategoryNotFound   = &Error{Kind: KindBusiness, Code: "CATEGORY_NOT_FOUND", Message: "categoría no encontrada"}
	ErrSaleNotFound       = &Error{Kind: KindBusiness, Code: "SALE_NOT_FOUND", Message: "venta no encontrada"}
	ErrInvalidInput       = &Error{Kind: KindValidation, Code: "VALIDATION", Message: "entrada inválida"}
	ErrDuplicate          = &Error{Kind: KindBusiness, Code: "DUPLICATE", Message: "ya existe un registro con estos datos"}
	ErrReferenced         = &Error{Kind: KindBusiness, Code: "REFERENCED", Message: "el registro está referenciado por otros datos"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "INVALID_CREDENTIALS", Message: "credenciales incorrectas"}
	ErrMissingToken       = &Error{Kind: KindAuthentication, Code: "MISSING_TOKEN", Message: "token de sesión requerido"}
	ErrSessionNotFound    = &Error{Kind: KindAuthentication, Code: "SESSION_NOT_FOUND", Message: "sesión no encontrada"}
	ErrSessionExpired     = &Error{Kind: KindAuthentication, Code: "SESSION_EXPIRED", Message: "sesión expirada"}
	ErrForbidden          = &Error{Kind: KindAuthorization, Code: "FORBIDDEN", Message: "acceso denegado: se requieren permisos de administrador"}
	ErrRateLimited        = &Error{Kind: KindAuthorization, Code: "RATE_LIMITED", Message: "límite de peticiones excedido"}
	ErrInsufficientStock  = &Error{Kind: KindBusiness, Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}
	ErrInternal           = &Error{Kind: KindInternal, Code: "INTERNAL", Message: "error interno del servidor"}
)

// NewValidation construye un error de validación.
func NewValidation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewBusiness construye un error de regla de negocio.
func NewBusiness(code, format string, args ...any) *Error {
	return &Error{Kind: KindBusiness, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewStorage envuelve un error del almacenamiento.
func NewStorage(code, message string, err error) *Error {
	return &Error{Kind: KindStorage, Code: code, Message: message, Err: err}
}

// InsufficientStock arma el error de stock nombrando el producto.
func InsufficientStock(product string, available, requested int) *Error {
	return &Error{
		Kind:    KindBusiness,
		Code:    ErrInsufficientStock.Code,
		Message: fmt.Sprintf("stock insuficiente para %s. Stock disponible: %d, solicitado: %d", product, available, requested),
	}
}

// KindOf devuelve el Kind del error; cualquier error no etiquetado es KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Public devuelve (code, message) aptos para el usuario. Con verbose=false los errores
// de almacenamiento e internos no exponen detalle.
func Public(err error, verbose bool) (string, string) {
	var de *Error
	if !errors.As(err, &de) {
		if verbose {
			return ErrInternal.Code, err.Error()
		}
		return ErrInternal.Code, ErrInternal.Message
	}
	switch de.Kind {
	case KindStorage, KindInternal:
		if verbose && de.Err != nil {
			return de.Code, de.Message + ": " + de.Err.Error()
		}
		if !verbose {
			return de.Code, genericMessage(de.Code)
		}
	}
	return de.Code, de.Message
}

func genericMessage(code string) string {
	switch code {
	case "DB_CONNECTION", "DB_TIMEOUT":
		return "error de conexión con la base de datos"
	case "INTERNAL":
		return ErrInternal.Message
	default:
		return "error al procesar la solicitud"
	}
}
