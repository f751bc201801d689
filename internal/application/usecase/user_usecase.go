package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// MinPasswordLength largo mínimo de contraseña.
const MinPasswordLength = 8

// Límites del listado de actividad.
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 1000
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

// UserUseCase aplica reglas de negocio para usuarios (administración y cambio de contraseña).
type UserUseCase struct {
	repo     repository.UserRepository
	sales    repository.SaleRepository
	sessions SessionRevoker
	log      zerolog.Logger
	cost     int
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, sales repository.SaleRepository, sessions SessionRevoker, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{
		repo:     repo,
		sales:    sales,
		sessions: sessions,
		log:      log.With().Str("component", "users").Logger(),
		cost:     bcrypt.DefaultCost,
	}
}

// SetHashCost cambia el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *UserUseCase) SetHashCost(cost int) { uc.cost = cost }

// HashPassword genera el hash bcrypt validando el largo mínimo.
func (uc *UserUseCase) HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", domain.NewValidation("WEAK_PASSWORD", "la contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return "", domain.NewValidation("INVALID_PASSWORD", "contraseña inválida: %v", err)
	}
	return string(b), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(u), nil
}

// List listado paginado por username.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.Normalize()
	users, total, err := uc.repo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items:      make([]dto.UserResponse, 0, len(users)),
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}
	for _, u := range users {
		out.Items = append(out.Items, *entityToUserResponse(u))
	}
	return out, nil
}

// Stats cantidad de usuarios por rol.
func (uc *UserUseCase) Stats(ctx context.Context) (*dto.UserStatsResponse, error) {
	st, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.UserStatsResponse{Total: st.Total, Admins: st.Admins, Regular: st.Regular}, nil
}

// Activity usuarios con sus sesiones vigentes, los de sesión más reciente primero.
// limit 0 toma DefaultActivityLimit.
func (uc *UserUseCase) Activity(ctx context.Context, limit int) ([]dto.UserActivityResponse, error) {
	if limit == 0 {
		limit = DefaultActivityLimit
	}
	if limit < 1 || limit > MaxActivityLimit {
		return nil, domain.NewValidation("INVALID_LIMIT", "el límite debe estar entre 1 y %d", MaxActivityLimit)
	}
	list, err := uc.repo.Activity(ctx, time.Now(), limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserActivityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.UserActivityResponse{
			ID:             a.UserID,
			Username:       a.Username,
			Role:           a.Role,
			ActiveSessions: a.ActiveSessions,
			LastSession:    a.LastSession,
		})
	}
	return out, nil
}

// Create crea un usuario activo. El rol por defecto es user.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if !usernameRe.MatchString(username) {
		return nil, domain.NewValidation("INVALID_USERNAME", "el usuario debe tener entre 3 y 50 caracteres alfanuméricos o guion bajo")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		return nil, domain.NewValidation("INVALID_ROLE", "rol inválido: %q", role)
	}
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewBusiness(domain.ErrDuplicate.Code, "el usuario %s ya existe", username)
	}
	hash, err := uc.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", u.ID).Str("username", username).Str("role", role).Msg("usuario creado")
	return entityToUserResponse(u), nil
}

// Update modifica nombre, rol, estado o contraseña. Cambiar el rol, desactivar o cambiar
// la contraseña revoca las sesiones del usuario. Un admin no puede quitarse a sí mismo el rol ni desactivarse.
func (uc *UserUseCase) Update(ctx context.Context, actor entity.Identity, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	revoke := false
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.NewValidation("INVALID_ROLE", "rol inválido: %q", *in.Role)
		}
		if id == actor.UserID && *in.Role != entity.RoleAdmin {
			return nil, domain.NewBusiness("SELF_DEMOTION", "no puede quitarse el rol de administrador")
		}
		// las sesiones cachean el rol
		revoke = revoke || u.Role != *in.Role
		u.Role = *in.Role
	}
	if in.Active != nil {
		if id == actor.UserID && !*in.Active {
			return nil, domain.NewBusiness("SELF_DEACTIVATION", "no puede desactivar su propio usuario")
		}
		revoke = revoke || (u.Active && !*in.Active)
		u.Active = *in.Active
	}
	if in.Password != nil {
		hash, err := uc.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
		revoke = true
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	if revoke {
		uc.revoke(ctx, id)
	}
	return entityToUserResponse(u), nil
}

// Delete elimina un usuario sin ventas registradas y revoca sus sesiones.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Identity, id string) error {
	if id == actor.UserID {
		return domain.NewBusiness("SELF_DELETION", "no puede eliminar su propio usuario")
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	n, err := uc.sales.CountByUser(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewBusiness("USER_HAS_SALES", "no se puede eliminar %s: tiene %d ventas registradas", u.Username, n)
	}
	uc.revoke(ctx, id)
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("usuario eliminado")
	return nil
}

// ChangePassword cambia la contraseña propia verificando la actual.
func (uc *UserUseCase) ChangePassword(ctx context.Context, actor entity.Identity, in dto.ChangePasswordRequest) error {
	u, err := uc.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := uc.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	uc.revoke(ctx, u.ID)
	return nil
}

func (uc *UserUseCase) revoke(ctx context.Context, userID string) {
	if uc.sessions == nil {
		return
	}
	if err := uc.sessions.RevokeUser(ctx, userID); err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("no se pudieron revocar las sesiones")
	}
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
