package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	apphttp "github.com/jhoicas/inventario-ventas/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	s := newServer(t)
	status, env := s.do(t, http.MethodGet, "/api/inventory/movements", "", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.Equal(t, "MISSING_TOKEN", env.Code)
}

// Caso 2: formato distinto de "Bearer <token>" → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Caso 3: token bien formado pero desconocido → HTTP 401 SESSION_NOT_FOUND.
func TestAuthMiddleware_TokenDesconocido_Retorna401(t *testing.T) {
	s := newServer(t)
	status, env := s.do(t, http.MethodGet, "/api/inventory/movements", "no-existe", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "SESSION_NOT_FOUND", env.Code)
}

// Caso 4: token válido → la identidad llega al handler.
func TestAuthMiddleware_TokenValido_CargaIdentidad(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "ana", "clave-ana1")

	status, env := s.do(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusOK, status)
	id := decode[dto.UserIdentity](t, env)
	assert.Equal(t, "u-ana", id.ID)
	assert.Equal(t, "user", id.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AdminMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAdminMiddleware_UsuarioBloqueadoEnRutaAdmin(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "ana", "clave-ana1")

	status, env := s.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Code)
}

func TestAdminMiddleware_AdminAccedeRutaAdmin(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "admin", "secreto123")

	status, env := s.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusOK, status)
	list := decode[dto.UserListResponse](t, env)
	assert.Equal(t, 2, list.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Límite de peticiones
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_LimiteDePeticiones_Retorna429(t *testing.T) {
	s := newServer(t, auth.WithRateLimiter(auth.NewMemoryRateLimiter(2, time.Minute)))
	token := s.login(t, "ana", "clave-ana1")

	for i := 0; i < 2; i++ {
		status, _ := s.do(t, http.MethodGet, "/api/inventory/movements", token, nil)
		assert.Equal(t, http.StatusOK, status)
	}
	status, env := s.do(t, http.MethodGet, "/api/inventory/movements", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", env.Code)

	// validar la sesión no consume cupo
	status, _ = s.do(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// La cadena protegida corre dentro de WithAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_PanicEnHandlerDevuelveResultUniforme(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "ana", "clave-ana1")

	// sin recover.New(): el límite lo pone el middleware
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(s.gw)})
	app.Get("/boom", apphttp.AuthMiddleware(s.gw), func(c *fiber.Ctx) error {
		panic("se rompió")
	})
	app.Get("/teapot", apphttp.AuthMiddleware(s.gw), func(c *fiber.Ctx) error {
		return fiber.ErrTeapot
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"code":"INTERNAL"`)
	assert.NotContains(t, string(body), "se rompió")

	req = httptest.NewRequest(http.MethodGet, "/teapot", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode, "los errores del handler siguen llegando al ErrorHandler")
}

func TestAdminMiddleware_SinTokenRetorna401(t *testing.T) {
	s := newServer(t)
	status, env := s.do(t, http.MethodGet, "/api/system/info", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", env.Code)
}
