package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
	"github.com/jhoicas/inventario-ventas/internal/testutil/memstore"
)

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "cat-1", Name: "Bebidas"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", Name: "Refresco", CategoryID: "cat-1", Stock: 5, Quantity: 1}))
	return store
}

func stockOf(t *testing.T, store *memstore.Store) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	return p.Stock
}

func mutate(ctx context.Context, tx repository.TxRepos) {
	p, _ := tx.Products.GetForUpdate(ctx, "p-1")
	p.Stock = 99
	_ = tx.Products.Update(ctx, p)
	_ = tx.Movements.Create(ctx, &entity.StockMovement{ID: "m-1", ProductID: "p-1", Quantity: 94})
}

func TestRun_ErrorRestauraSnapshot(t *testing.T) {
	store := seed(t)
	err := store.Run(context.Background(), func(ctx context.Context, tx repository.TxRepos) error {
		mutate(ctx, tx)
		return domain.ErrProductNotFound
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, 5, stockOf(t, store))
	assert.Zero(t, store.MovementCount())
}

func TestRun_PanicRestauraSnapshotYRelanza(t *testing.T) {
	store := seed(t)
	assert.PanicsWithValue(t, "boom", func() {
		_ = store.Run(context.Background(), func(ctx context.Context, tx repository.TxRepos) error {
			mutate(ctx, tx)
			panic("boom")
		})
	})
	assert.Equal(t, 5, stockOf(t, store))
	assert.Zero(t, store.MovementCount())

	// el lock de transacción quedó libre
	require.NoError(t, store.Run(context.Background(), func(ctx context.Context, tx repository.TxRepos) error {
		mutate(ctx, tx)
		return nil
	}))
	assert.Equal(t, 99, stockOf(t, store))
	assert.Equal(t, 1, store.MovementCount())
}
