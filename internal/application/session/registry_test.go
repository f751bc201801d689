package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/application/session"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
	"github.com/jhoicas/inventario-ventas/internal/testutil/memstore"
)

// reloj manual para controlar el vencimiento.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func setup(t *testing.T, cacheTTL time.Duration) (*session.Registry, *memstore.Store, *clock, entity.Identity) {
	t.Helper()
	store := memstore.New()
	u := &entity.User{ID: "u-1", Username: "ana", Role: entity.RoleUser, Active: true}
	require.NoError(t, store.Users().Create(context.Background(), u))

	clk := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	reg := session.NewRegistry(store.Sessions(), session.Config{Timeout: time.Hour, CacheTTL: cacheTTL},
		zerolog.Nop(), session.WithClock(clk.Now))
	return reg, store, clk, entity.IdentityOf(u)
}

func TestIssue_TokenOpacoDe256Bits(t *testing.T) {
	reg, store, clk, id := setup(t, time.Minute)

	s1, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)
	s2, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)

	assert.Len(t, s1.Token, 64, "32 bytes en hex")
	assert.NotEqual(t, s1.Token, s2.Token)
	assert.Equal(t, clk.Now().Add(time.Hour), s1.ExpiresAt)
	assert.True(t, store.SessionRecord(s1.Token).Active, "la sesión debe quedar persistida")
	assert.Equal(t, 2, reg.Cached())
}

func TestValidate_SesionVigenteDevuelveIdentidad(t *testing.T) {
	reg, _, _, id := setup(t, time.Minute)
	s, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)

	got, err := reg.Validate(context.Background(), s.Token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidate_TokenDesconocido(t *testing.T) {
	reg, _, _, _ := setup(t, time.Minute)

	_, err := reg.Validate(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = reg.Validate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestValidate_SesionVencidaSeExpulsaYSigueFallando(t *testing.T) {
	reg, store, clk, id := setup(t, time.Minute)
	s, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)

	clk.Advance(time.Hour)

	_, err = reg.Validate(context.Background(), s.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Zero(t, reg.Cached(), "la sesión vencida sale del índice")
	assert.False(t, store.SessionRecord(s.Token).Active, "y queda inactiva en la BD")

	_, err = reg.Validate(context.Background(), s.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired, "las llamadas siguientes también fallan")
}

func TestValidate_UsaCacheDentroDelTTL(t *testing.T) {
	reg, store, clk, id := setup(t, time.Minute)
	s, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := reg.Validate(context.Background(), s.Token)
		require.NoError(t, err)
	}
	assert.Zero(t, store.SessionLookups(), "dentro del TTL no se consulta la BD")

	clk.Advance(2 * time.Minute)
	_, err = reg.Validate(context.Background(), s.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, store.SessionLookups(), "pasado el TTL se revalida contra la BD")
}

func TestValidate_ReiniciaDesdeBD(t *testing.T) {
	reg, store, clk, id := setup(t, time.Minute)
	s, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, reg.Cached())

	// Un registro nuevo (proceso reiniciado) arranca con el índice vacío.
	fresh := session.NewRegistry(store.Sessions(), session.Config{Timeout: time.Hour, CacheTTL: time.Minute},
		zerolog.Nop(), session.WithClock(clk.Now))
	require.Zero(t, fresh.Cached())

	got, err := fresh.Validate(context.Background(), s.Token)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, got.UserID)
	assert.Equal(t, 1, fresh.Cached())
}

func TestValidate_RevocadaEnOtroProcesoFallaTrasElTTL(t *testing.T) {
	reg, store, clk, id := setup(t, time.Minute)
	s, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, store.Sessions().Deactivate(context.Background(), s.Token))
	clk.Advance(2 * time.Minute)

	_, err = reg.Validate(context.Background(), s.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestValidate_UsuarioDesactivadoInvalidaSesion(t *testing.T) {
	reg, store, clk, id := setup(t, 0)
	s, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)

	u, _ := store.Users().GetByID(context.Background(), id.UserID)
	u.Active = false
	require.NoError(t, store.Users().Update(context.Background(), u))
	clk.Advance(time.Second)

	_, err = reg.Validate(context.Background(), s.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestRevoke_Idempotente(t *testing.T) {
	reg, store, _, id := setup(t, time.Minute)
	s, err := reg.Issue(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, reg.Revoke(context.Background(), s.Token))
	require.NoError(t, reg.Revoke(context.Background(), s.Token))
	require.NoError(t, reg.Revoke(context.Background(), "desconocido"))

	assert.False(t, store.SessionRecord(s.Token).Active)
	_, err = reg.Validate(context.Background(), s.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestRevokeUser_CierraTodasLasSesiones(t *testing.T) {
	reg, _, _, id := setup(t, time.Minute)
	a, _ := reg.Issue(context.Background(), id)
	b, _ := reg.Issue(context.Background(), id)

	require.NoError(t, reg.RevokeUser(context.Background(), id.UserID))

	for _, tok := range []string{a.Token, b.Token} {
		_, err := reg.Validate(context.Background(), tok)
		assert.Error(t, err)
	}
}

// revocaAlLeer ejecuta onRead una sola vez, justo después de que GetByToken lee la fila.
type revocaAlLeer struct {
	repository.SessionRepository
	once   sync.Once
	onRead func()
}

func (r *revocaAlLeer) GetByToken(ctx context.Context, token string) (*entity.Session, error) {
	s, err := r.SessionRepository.GetByToken(ctx, token)
	if r.onRead != nil {
		r.once.Do(r.onRead)
	}
	return s, err
}

func TestValidate_RevocacionDuranteLecturaNoQuedaEnCache(t *testing.T) {
	for name, revoke := range map[string]func(reg *session.Registry, token, userID string) error{
		"logout": func(reg *session.Registry, token, _ string) error {
			return reg.Revoke(context.Background(), token)
		},
		"usuario": func(reg *session.Registry, _, userID string) error {
			return reg.RevokeUser(context.Background(), userID)
		},
	} {
		t.Run(name, func(t *testing.T) {
			store := memstore.New()
			u := &entity.User{ID: "u-1", Username: "ana", Role: entity.RoleUser, Active: true}
			require.NoError(t, store.Users().Create(context.Background(), u))
			clk := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
			repo := &revocaAlLeer{SessionRepository: store.Sessions()}
			reg := session.NewRegistry(repo, session.Config{Timeout: time.Hour, CacheTTL: 30 * time.Second},
				zerolog.Nop(), session.WithClock(clk.Now))

			s, err := reg.Issue(context.Background(), entity.IdentityOf(u))
			require.NoError(t, err)
			clk.Advance(31 * time.Second)
			repo.onRead = func() { require.NoError(t, revoke(reg, s.Token, u.ID)) }

			_, err = reg.Validate(context.Background(), s.Token)
			assert.ErrorIs(t, err, domain.ErrSessionExpired)
			assert.False(t, store.SessionRecord(s.Token).Active)
			assert.Zero(t, reg.Cached(), "la sesión revocada no vuelve al índice")

			_, err = reg.Validate(context.Background(), s.Token)
			assert.ErrorIs(t, err, domain.ErrSessionExpired)
		})
	}
}

func TestSweepExpired_BorraVencidasYToleraErrores(t *testing.T) {
	reg, store, clk, id := setup(t, time.Minute)
	old, _ := reg.Issue(context.Background(), id)
	clk.Advance(30 * time.Minute)
	fresh, _ := reg.Issue(context.Background(), id)
	clk.Advance(31 * time.Minute)

	n := reg.SweepExpired(context.Background())
	assert.EqualValues(t, 1, n)
	assert.Nil(t, store.SessionRecord(old.Token))
	assert.NotNil(t, store.SessionRecord(fresh.Token))
	assert.Equal(t, 1, reg.Cached())

	store.SessionErr = memstore.ErrInjected
	assert.NotPanics(t, func() { assert.Zero(t, reg.SweepExpired(context.Background())) })
}

func TestRun_TerminaConElContexto(t *testing.T) {
	reg, _, _, _ := setup(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run no terminó al cancelar el contexto")
	}
}

func TestRegistry_AccesoConcurrente(t *testing.T) {
	reg, _, _, id := setup(t, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := reg.Issue(context.Background(), id)
			if err != nil {
				return
			}
			_, _ = reg.Validate(context.Background(), s.Token)
			_ = reg.Revoke(context.Background(), s.Token)
		}()
	}
	wg.Wait()
	assert.Zero(t, reg.Cached())
}
