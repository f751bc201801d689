package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ventas/internal/application/analytics"
	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/inventory"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/application/session"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	apphttp "github.com/jhoicas/inventario-ventas/internal/interfaces/http"
	"github.com/jhoicas/inventario-ventas/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) Render(*dto.ReceiptResponse) ([]byte, error) { return []byte("%PDF-1.4 prueba"), nil }

type fakeProbe struct{ down bool }

func (p fakeProbe) Ping(context.Context) error {
	if p.down {
		return errors.New("sin conexión")
	}
	return nil
}

func (fakeProbe) Stats() (int32, int32, int32, int32) { return 4, 3, 1, 20 }

type server struct {
	app   *fiber.App
	store *memstore.Store
	gw    *auth.Gateway
	reg   *session.Registry
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
}

// newServer arma la API completa sobre el store en memoria con un admin y un usuario.
func newServer(t *testing.T, opts ...auth.Option) *server {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	addUser(t, store, "u-admin", "admin", "secreto123", entity.RoleAdmin)
	addUser(t, store, "u-ana", "ana", "clave-ana1", entity.RoleUser)
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "cat-1", Name: "Bebidas"}))

	log := zerolog.Nop()
	reg := session.NewRegistry(store.Sessions(), session.Config{Timeout: time.Hour, CacheTTL: time.Minute}, log)
	gw := auth.NewGateway(store.Users(), reg, log, opts...)

	ledger := inventory.NewLedger(store, store.Products(), store.Movements(), inventory.Config{
		ExchangeRate: decimal.NewFromInt(395),
		Policy:       inventory.PolicyStrict,
		LowStock:     5,
		MediumStock:  20,
	}, log)
	users := usecase.NewUserUseCase(store.Users(), store.Sales(), reg, log)
	users.SetHashCost(bcrypt.MinCost)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(gw)})
	app.Use(recover.New())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Gateway:    gw,
		Ledger:     ledger,
		Sales:      sales.NewCoordinator(store, ledger, store.Sales(), fakePDF{}, log),
		Categories: usecase.NewCategoryUseCase(store, store.Categories(), log),
		Services:   usecase.NewServiceUseCase(store.Services()),
		Users:      users,
		Reports:    analytics.NewReportUseCase(store.Reports(), 5),
		System:     apphttp.NewSystemHandler(fakeProbe{}, reg, "inventario-test", "test", time.Now()),
	})
	return &server{app: app, store: store, gw: gw, reg: reg}
}

func addUser(t *testing.T, store *memstore.Store, id, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{
		ID: id, Username: username, PasswordHash: string(hash), Role: role, Active: true,
	}))
}

// do lanza la petición y devuelve estado y sobre decodificado.
func (s *server) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	resp := s.raw(t, method, path, token, body)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *server) raw(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *server) login(t *testing.T, username, password string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, status, env.Error)
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
