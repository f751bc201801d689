package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/testutil/memstore"
)

func newCategories(t *testing.T) (*usecase.CategoryUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return usecase.NewCategoryUseCase(store, store.Categories(), zerolog.Nop()), store
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestCategory_CrearYListarAnidado(t *testing.T) {
	uc, _ := newCategories(t)
	ctx := context.Background()

	cat, err := uc.Create(ctx, dto.CategoryRequest{Name: "  Bebidas   Frías "})
	require.NoError(t, err)
	assert.Equal(t, "Bebidas Frías", cat.Name)

	_, err = uc.CreateSubcategory(ctx, cat.ID, dto.CategoryRequest{Name: "Refrescos"})
	require.NoError(t, err)
	_, err = uc.CreateSubcategory(ctx, cat.ID, dto.CategoryRequest{Name: "Jugos"})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Subcategories, 2)
	assert.Equal(t, "Jugos", list[0].Subcategories[0].Name)
}

func TestCategory_NombreDuplicadoSinTildesNiMayusculas(t *testing.T) {
	uc, _ := newCategories(t)
	ctx := context.Background()
	cat, err := uc.Create(ctx, dto.CategoryRequest{Name: "Electrónica"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "ELECTRONICA"})
	assert.Equal(t, "DUPLICATE", codeOf(t, err))

	_, err = uc.CreateSubcategory(ctx, cat.ID, dto.CategoryRequest{Name: "Cables"})
	require.NoError(t, err)
	_, err = uc.CreateSubcategory(ctx, cat.ID, dto.CategoryRequest{Name: "cables"})
	assert.Equal(t, "DUPLICATE", codeOf(t, err))

	assert.NoError(t, uc.Rename(ctx, cat.ID, dto.CategoryRequest{Name: "electrónica"}), "renombrar a sí misma no es duplicado")
}

func TestCategory_EliminarConProductosSeBloquea(t *testing.T) {
	uc, store := newCategories(t)
	ctx := context.Background()
	cat, err := uc.Create(ctx, dto.CategoryRequest{Name: "Aseo"})
	require.NoError(t, err)
	sub, err := uc.CreateSubcategory(ctx, cat.ID, dto.CategoryRequest{Name: "Jabones"})
	require.NoError(t, err)
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Jabón", CategoryID: cat.ID, SubcategoryID: sub.ID}))

	err = uc.Delete(ctx, cat.ID)
	assert.Equal(t, "CATEGORY_IN_USE", codeOf(t, err))
	assert.Equal(t, domain.KindBusiness, domain.KindOf(err))

	err = uc.DeleteSubcategory(ctx, sub.ID)
	assert.Equal(t, "SUBCATEGORY_IN_USE", codeOf(t, err))

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Subcategories, 1, "las subcategorías siguen intactas")
}

func TestCategory_EliminarSinProductosBorraSubcategorias(t *testing.T) {
	uc, store := newCategories(t)
	ctx := context.Background()
	cat, err := uc.Create(ctx, dto.CategoryRequest{Name: "Aseo"})
	require.NoError(t, err)
	sub, err := uc.CreateSubcategory(ctx, cat.ID, dto.CategoryRequest{Name: "Jabones"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, cat.ID))

	s, err := store.Categories().GetSubcategory(ctx, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, uc.Delete(ctx, cat.ID), domain.ErrCategoryNotFound)
}

func TestCategory_Validaciones(t *testing.T) {
	uc, _ := newCategories(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CategoryRequest{Name: "   "})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = uc.CreateSubcategory(ctx, "nope", dto.CategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	assert.ErrorIs(t, uc.Rename(ctx, "nope", dto.CategoryRequest{Name: "X"}), domain.ErrCategoryNotFound)
	assert.Equal(t, "SUBCATEGORY_NOT_FOUND", codeOf(t, uc.DeleteSubcategory(ctx, "nope")))
}
