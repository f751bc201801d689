package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
)

func TestAuth_LoginSesionYLogout(t *testing.T) {
	s := newServer(t)

	status, env := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)

	token := s.login(t, "ana", "clave-ana1")
	assert.Len(t, token, 64)

	status, env = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, _ = s.do(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// logout sin token también es exitoso
	status, _ = s.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProductos_LecturaPublicaEscrituraProtegida(t *testing.T) {
	s := newServer(t)
	in := dto.CreateProductRequest{Name: "Refresco", CategoryID: "cat-1", Stock: 10, PriceUSD: decimal.NewFromInt(1)}

	status, _ := s.do(t, http.MethodPost, "/api/products", "", in)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := s.login(t, "ana", "clave-ana1")
	status, env := s.do(t, http.MethodPost, "/api/products", token, in)
	require.Equal(t, http.StatusCreated, status, env.Error)
	p := decode[dto.ProductResponse](t, env)
	assert.Equal(t, "395", p.PriceCUP.String())
	assert.Equal(t, "medium", p.StockStatus)

	status, env = s.do(t, http.MethodGet, "/api/products?search=refr", "", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[dto.ProductListResponse](t, env)
	assert.Equal(t, 1, list.Total)

	status, env = s.do(t, http.MethodGet, "/api/products/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Code)

	status, env = s.do(t, http.MethodPut, "/api/products/"+p.ID, token, map[string]any{"stock": 4})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "low", decode[dto.ProductResponse](t, env).StockStatus)

	status, env = s.do(t, http.MethodPut, "/api/products/"+p.ID, token, map[string]any{"sku": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "NO_VALID_FIELDS", env.Code)

	status, env = s.do(t, http.MethodGet, "/api/products/"+p.ID+"/movements", token, nil)
	require.Equal(t, http.StatusOK, status)
	movs := decode[dto.MovementListResponse](t, env)
	require.Equal(t, 2, movs.Total)
	assert.Equal(t, "Ajuste manual", movs.Items[0].Reason)
	assert.Equal(t, "Stock inicial", movs.Items[1].Reason)
}

func TestVentas_FlujoCompletoConComprobante(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "ana", "clave-ana1")

	_, env := s.do(t, http.MethodPost, "/api/products", token,
		dto.CreateProductRequest{Name: "Café", CategoryID: "cat-1", Stock: 10, PriceUSD: decimal.NewFromInt(1)})
	p := decode[dto.ProductResponse](t, env)

	sale := dto.RegisterSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 3}},
		Discount: decimal.NewFromInt(85),
	}
	status, env := s.do(t, http.MethodPost, "/api/sales", token, sale)
	require.Equal(t, http.StatusCreated, status, env.Error)
	res := decode[dto.SaleResultResponse](t, env)
	assert.Equal(t, "1185", res.TotalBeforeDiscount.String())
	assert.Equal(t, "1100", res.Total.String())

	_, env = s.do(t, http.MethodGet, "/api/products/"+p.ID, "", nil)
	assert.Equal(t, 7, decode[dto.ProductResponse](t, env).Stock)

	status, env = s.do(t, http.MethodGet, "/api/sales/receipts/"+res.TransactionID, token, nil)
	require.Equal(t, http.StatusOK, status)
	receipt := decode[dto.ReceiptResponse](t, env)
	assert.Len(t, receipt.Lines, 1)
	assert.Equal(t, "efectivo", receipt.PaymentMethod)

	resp := s.raw(t, http.MethodGet, "/api/sales/receipts/"+res.TransactionID+"/pdf", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "comprobante-")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "%PDF")

	status, env = s.do(t, http.MethodPost, "/api/sales", token, dto.RegisterSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 50}},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)
	assert.Contains(t, env.Error, "Café")

	status, env = s.do(t, http.MethodPost, "/api/sales", token, dto.RegisterSaleRequest{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "LINES_REQUIRED", env.Code)

	status, env = s.do(t, http.MethodGet, "/api/sales", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decode[dto.SaleListResponse](t, env).Total)

	status, env = s.do(t, http.MethodGet, "/api/reports/summary", token, nil)
	require.Equal(t, http.StatusOK, status)
	summary := decode[dto.ReportSummaryResponse](t, env)
	assert.Equal(t, 1, summary.Sales.Transactions)
	assert.Equal(t, "1100", summary.Sales.Revenue.String())
}

func TestCategorias_DuplicadoYEnUso(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "ana", "clave-ana1")

	status, env := s.do(t, http.MethodPost, "/api/categories", token, dto.CategoryRequest{Name: "BEBIDAS"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", env.Code)

	status, _ = s.do(t, http.MethodPost, "/api/products", token,
		dto.CreateProductRequest{Name: "Agua", CategoryID: "cat-1", Stock: 1})
	require.Equal(t, http.StatusCreated, status)

	status, env = s.do(t, http.MethodDelete, "/api/categories/cat-1", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CATEGORY_IN_USE", env.Code)

	status, env = s.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.CategoryResponse](t, env), 1)
}

func TestUsuarios_CambioDePasswordRevocaSesion(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "ana", "clave-ana1")

	status, env := s.do(t, http.MethodPut, "/api/users/me/password", token,
		dto.ChangePasswordRequest{CurrentPassword: "clave-ana1", NewPassword: "clave-nueva"})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, _ = s.do(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	s.login(t, "ana", "clave-nueva")
}

func TestSistema_HealthInfoYRutaDesconocida(t *testing.T) {
	s := newServer(t)

	resp := s.raw(t, http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	admin := s.login(t, "admin", "secreto123")
	status, env := s.do(t, http.MethodGet, "/api/system/info", admin, nil)
	require.Equal(t, http.StatusOK, status)
	info := decode[dto.SystemInfoResponse](t, env)
	assert.Equal(t, "inventario-test", info.App)
	assert.Equal(t, int32(20), info.DBMaxConns)
	assert.Equal(t, 1, info.CachedSessions)

	status, env = s.do(t, http.MethodGet, "/api/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ROUTE_NOT_FOUND", env.Code)
}

func TestUsuarios_CambioDeRolCierraSesionesAbiertas(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "admin", "secreto123")
	ana := s.login(t, "ana", "clave-ana1")

	role := "admin"
	status, env := s.do(t, http.MethodPut, "/api/users/u-ana", admin, dto.UpdateUserRequest{Role: &role})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, _ = s.do(t, http.MethodGet, "/api/auth/session", ana, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "la identidad cacheada con el rol viejo ya no vale")

	token := s.login(t, "ana", "clave-ana1")
	status, _ = s.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUsuarios_EstadisticasYActividad(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "admin", "secreto123")
	s.login(t, "ana", "clave-ana1")
	ana := s.login(t, "ana", "clave-ana1")

	status, _ := s.do(t, http.MethodGet, "/api/users/stats", ana, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := s.do(t, http.MethodGet, "/api/users/stats", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, dto.UserStatsResponse{Total: 2, Admins: 1, Regular: 1}, decode[dto.UserStatsResponse](t, env))

	status, env = s.do(t, http.MethodGet, "/api/users/activity", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	byName := map[string]dto.UserActivityResponse{}
	for _, a := range decode[[]dto.UserActivityResponse](t, env) {
		byName[a.Username] = a
	}
	require.Len(t, byName, 2)
	assert.Equal(t, 2, byName["ana"].ActiveSessions)
	assert.Equal(t, 1, byName["admin"].ActiveSessions)
	assert.NotNil(t, byName["ana"].LastSession)

	status, _ = s.do(t, http.MethodPost, "/api/auth/logout", ana, nil)
	require.Equal(t, http.StatusOK, status)
	_, env = s.do(t, http.MethodGet, "/api/users/activity?limit=1", admin, nil)
	list := decode[[]dto.UserActivityResponse](t, env)
	require.Len(t, list, 1)

	status, env = s.do(t, http.MethodGet, "/api/users/activity?limit=5000", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_LIMIT", env.Code)
}
