package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/testutil/memstore"
)

type revokerSpy struct{ users []string }

func (r *revokerSpy) RevokeUser(_ context.Context, id string) error {
	r.users = append(r.users, id)
	return nil
}

var admin = entity.Identity{UserID: "u-admin", Username: "admin", Role: entity.RoleAdmin}

func newUsers(t *testing.T) (*usecase.UserUseCase, *memstore.Store, *revokerSpy) {
	t.Helper()
	store := memstore.New()
	spy := &revokerSpy{}
	uc := usecase.NewUserUseCase(store.Users(), store.Sales(), spy, zerolog.Nop())
	uc.SetHashCost(bcrypt.MinCost)
	return uc, store, spy
}

func TestUser_CrearValidaUsernameYPassword(t *testing.T) {
	uc, store, _ := newUsers(t)
	ctx := context.Background()

	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "ana_1", Password: "segura123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.True(t, u.Active)

	stored, _ := store.Users().GetByID(ctx, u.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("segura123")))

	cases := []dto.CreateUserRequest{
		{Username: "ab", Password: "segura123"},
		{Username: "ana-1", Password: "segura123"},
		{Username: "pedro", Password: "corta"},
		{Username: "pedro", Password: "segura123", Role: "root"},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, in)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "%+v", in)
	}

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "ana_1", Password: "otra-clave"})
	assert.Equal(t, "DUPLICATE", codeOf(t, err))
}

func TestUser_DesactivarYCambiarPasswordRevocanSesiones(t *testing.T) {
	uc, _, spy := newUsers(t)
	ctx := context.Background()
	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "pedro", Password: "segura123"})
	require.NoError(t, err)

	name := "Pedro P."
	_, err = uc.Update(ctx, admin, u.ID, dto.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Empty(t, spy.users)

	off := false
	out, err := uc.Update(ctx, admin, u.ID, dto.UpdateUserRequest{Active: &off})
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.Equal(t, []string{u.ID}, spy.users)

	pass := "nueva-clave"
	_, err = uc.Update(ctx, admin, u.ID, dto.UpdateUserRequest{Password: &pass})
	require.NoError(t, err)
	assert.Len(t, spy.users, 2)
}

func TestUser_CambioDeRolRevocaSesiones(t *testing.T) {
	uc, _, spy := newUsers(t)
	ctx := context.Background()
	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "jefa", Password: "segura123", Role: entity.RoleAdmin})
	require.NoError(t, err)

	same := entity.RoleAdmin
	_, err = uc.Update(ctx, admin, u.ID, dto.UpdateUserRequest{Role: &same})
	require.NoError(t, err)
	assert.Empty(t, spy.users, "mismo rol no revoca")

	role := entity.RoleUser
	out, err := uc.Update(ctx, admin, u.ID, dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, out.Role)
	assert.Equal(t, []string{u.ID}, spy.users)
}

func TestUser_AdminNoPuedeDegradarseNiEliminarse(t *testing.T) {
	uc, store, _ := newUsers(t)
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: admin.UserID, Username: "admin", Role: entity.RoleAdmin, Active: true}))

	role := entity.RoleUser
	_, err := uc.Update(ctx, admin, admin.UserID, dto.UpdateUserRequest{Role: &role})
	assert.Equal(t, "SELF_DEMOTION", codeOf(t, err))

	off := false
	_, err = uc.Update(ctx, admin, admin.UserID, dto.UpdateUserRequest{Active: &off})
	assert.Equal(t, "SELF_DEACTIVATION", codeOf(t, err))

	assert.Equal(t, "SELF_DELETION", codeOf(t, uc.Delete(ctx, admin, admin.UserID)))
}

func TestUser_EliminarConVentasSeRechaza(t *testing.T) {
	uc, store, spy := newUsers(t)
	ctx := context.Background()
	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "vendedor", Password: "segura123"})
	require.NoError(t, err)
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: "s1", UserID: u.ID, Quantity: 1, TotalPrice: decimal.NewFromInt(1)}))

	err = uc.Delete(ctx, admin, u.ID)
	assert.Equal(t, "USER_HAS_SALES", codeOf(t, err))
	assert.Empty(t, spy.users)

	other, err := uc.Create(ctx, dto.CreateUserRequest{Username: "temporal", Password: "segura123"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, admin, other.ID))
	assert.Equal(t, []string{other.ID}, spy.users)
	_, err = uc.GetByID(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUser_CambiarPasswordPropia(t *testing.T) {
	uc, store, spy := newUsers(t)
	ctx := context.Background()
	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "luis", Password: "segura123"})
	require.NoError(t, err)
	me := entity.Identity{UserID: u.ID, Username: "luis", Role: entity.RoleUser}

	err = uc.ChangePassword(ctx, me, dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "otra-segura"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = uc.ChangePassword(ctx, me, dto.ChangePasswordRequest{CurrentPassword: "segura123", NewPassword: "corta"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, uc.ChangePassword(ctx, me, dto.ChangePasswordRequest{CurrentPassword: "segura123", NewPassword: "otra-segura"}))
	stored, _ := store.Users().GetByID(ctx, u.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("otra-segura")))
	assert.Equal(t, []string{u.ID}, spy.users)
}

func TestUser_ListPaginado(t *testing.T) {
	uc, _, _ := newUsers(t)
	ctx := context.Background()
	for _, name := range []string{"carla", "beto", "alba"} {
		_, err := uc.Create(ctx, dto.CreateUserRequest{Username: name, Password: "segura123"})
		require.NoError(t, err)
	}
	out, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, "alba", out.Items[0].Username)
	assert.Equal(t, 1, out.TotalPages)
}

func TestUser_ActividadCuentaSoloSesionesVigentes(t *testing.T) {
	uc, store, _ := newUsers(t)
	ctx := context.Background()
	ana, err := uc.Create(ctx, dto.CreateUserRequest{Username: "ana", Password: "segura123"})
	require.NoError(t, err)
	beto, err := uc.Create(ctx, dto.CreateUserRequest{Username: "beto", Password: "segura123", Role: entity.RoleAdmin})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "carla", Password: "segura123"})
	require.NoError(t, err)

	now := time.Now()
	sessions := []*entity.Session{
		{ID: "s1", Token: "t1", UserID: ana.ID, Active: true, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(time.Hour)},
		{ID: "s2", Token: "t2", UserID: ana.ID, Active: true, CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)},
		{ID: "s3", Token: "t3", UserID: ana.ID, Active: false, CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{ID: "s4", Token: "t4", UserID: beto.ID, Active: true, CreatedAt: now.Add(-3 * time.Hour), ExpiresAt: now.Add(-time.Minute)},
		{ID: "s5", Token: "t5", UserID: beto.ID, Active: true, CreatedAt: now.Add(-4 * time.Hour), ExpiresAt: now.Add(time.Hour)},
	}
	for _, sess := range sessions {
		require.NoError(t, store.Sessions().Create(ctx, sess))
	}

	list, err := uc.Activity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ana", list[0].Username)
	assert.Equal(t, 2, list[0].ActiveSessions)
	require.NotNil(t, list[0].LastSession)
	assert.True(t, list[0].LastSession.Equal(sessions[1].CreatedAt), "la inactiva no cuenta como última")
	assert.Equal(t, "beto", list[1].Username)
	assert.Equal(t, 1, list[1].ActiveSessions, "la vencida no cuenta")
	assert.Equal(t, "carla", list[2].Username)
	assert.Zero(t, list[2].ActiveSessions)
	assert.Nil(t, list[2].LastSession)

	top, err := uc.Activity(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	for _, bad := range []int{-1, usecase.MaxActivityLimit + 1} {
		_, err = uc.Activity(ctx, bad)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}

	st, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.UserStatsResponse{Total: 3, Admins: 1, Regular: 2}, *st)
}
