package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, name, role, active, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Name, user.Role, user.Active,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return translateError(err, "insert user")
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername obtiene un usuario por username (exacto).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "get user")
	}
	return &u, nil
}

// Update actualiza nombre, rol, estado y hash.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET password_hash = $2, name = $3, role = $4, active = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.PasswordHash, user.Name, user.Role, user.Active, user.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword reemplaza solo el hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return translateError(err, "update password")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios ordenados por username con el total para paginar.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, translateError(err, "count users")
	}
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, translateError(err, "list users")
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, translateError(err, "scan user")
		}
		list = append(list, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, "list users")
	}
	return list, total, nil
}

// Delete elimina un usuario por ID. Sus sesiones se borran en cascada.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return translateError(err, "delete user")
	}
	return nil
}

// Stats cuenta usuarios por rol.
func (r *UserRepo) Stats(ctx context.Context) (entity.UserStats, error) {
	var st entity.UserStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE role = 'admin'),
		       COUNT(*) FILTER (WHERE role = 'user')
		FROM users`).Scan(&st.Total, &st.Admins, &st.Regular)
	if err != nil {
		return entity.UserStats{}, translateError(err, "user stats")
	}
	return st, nil
}

// Activity lista usuarios con la cantidad de sesiones vigentes y la más reciente.
func (r *UserRepo) Activity(ctx context.Context, now time.Time, limit int) ([]entity.UserActivity, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.id, u.username, u.role, COUNT(s.id), MAX(s.created_at)
		FROM users u
		LEFT JOIN sessions s ON s.user_id = u.id AND s.active AND s.expires_at > $1
		GROUP BY u.id, u.username, u.role
		ORDER BY MAX(s.created_at) DESC NULLS LAST, u.username
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, translateError(err, "user activity")
	}
	defer rows.Close()
	var list []entity.UserActivity
	for rows.Next() {
		var a entity.UserActivity
		if err := rows.Scan(&a.UserID, &a.Username, &a.Role, &a.ActiveSessions, &a.LastSession); err != nil {
			return nil, translateError(err, "scan user activity")
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "user activity")
	}
	return list, nil
}
