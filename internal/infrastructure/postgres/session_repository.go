package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo almacenamiento durable de sesiones.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Create persiste la sesión emitida.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO sessions (id, token, user_id, created_at, expires_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Token, s.UserID, s.CreatedAt, s.ExpiresAt, s.Active); err != nil {
		return translateError(err, "insert session")
	}
	return nil
}

// GetByToken devuelve la sesión con la identidad de su usuario. UserOK es false si el
// usuario ya no existe o está inactivo.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*entity.Session, error) {
	query := `
		SELECT s.id, s.token, s.user_id, s.created_at, s.expires_at, s.active,
		       COALESCE(u.username, ''), COALESCE(u.role, ''), COALESCE(u.active, false)
		FROM sessions s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`
	var s entity.Session
	err := r.q.QueryRow(ctx, query, token).Scan(
		&s.ID, &s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.Active,
		&s.User.Username, &s.User.Role, &s.UserOK,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "get session")
	}
	s.User.UserID = s.UserID
	return &s, nil
}

// Deactivate marca la sesión inactiva; un token desconocido no es error.
func (r *SessionRepo) Deactivate(ctx context.Context, token string) error {
	if _, err := r.q.Exec(ctx, `UPDATE sessions SET active = false WHERE token = $1`, token); err != nil {
		return translateError(err, "deactivate session")
	}
	return nil
}

// DeactivateByUser marca inactivas todas las sesiones del usuario.
func (r *SessionRepo) DeactivateByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE sessions SET active = false WHERE user_id = $1 AND active`, userID); err != nil {
		return translateError(err, "deactivate user sessions")
	}
	return nil
}

// DeleteExpired borra las sesiones vencidas y devuelve cuántas.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, translateError(err, "delete expired sessions")
	}
	return tag.RowsAffected(), nil
}
