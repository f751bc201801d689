package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/testutil/memstore"
)

func TestService_CrudConBorradoLogico(t *testing.T) {
	uc := usecase.NewServiceUseCase(memstore.New().Services())
	ctx := context.Background()

	svc, err := uc.Create(ctx, dto.ServiceRequest{Name: "Reparación", Price: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.True(t, svc.Active)

	price := decimal.NewFromInt(650)
	up, err := uc.Update(ctx, svc.ID, dto.UpdateServiceRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(up.Price))

	require.NoError(t, uc.Delete(ctx, svc.ID))
	require.NoError(t, uc.Delete(ctx, svc.ID))

	active, err := uc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := uc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)
}

func TestService_Validaciones(t *testing.T) {
	uc := usecase.NewServiceUseCase(memstore.New().Services())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.ServiceRequest{Name: ""})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = uc.Create(ctx, dto.ServiceRequest{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	assert.Equal(t, "SERVICE_NOT_FOUND", codeOf(t, uc.Delete(ctx, "nope")))
}
