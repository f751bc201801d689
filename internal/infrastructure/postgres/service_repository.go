package postgres

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

const serviceColumns = `id, name, description, price, active, created_at, updated_at`

// ServiceRepo catálogo de servicios.
type ServiceRepo struct {
	q Querier
}

func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	query := `INSERT INTO services (` + serviceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Description, s.Price, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return translateError(err, "insert service")
	}
	return nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	row := r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	s, err := scanService(row)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateError(err, "get service")
	}
	return s, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	query := `
		UPDATE services SET name = $2, description = $3, price = $4, active = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Description, s.Price, s.Active, s.UpdatedAt)
	if err != nil {
		return translateError(err, "update service")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE active OR $1 ORDER BY name, id`,
		includeInactive,
	)
	if err != nil {
		return nil, translateError(err, "list services")
	}
	defer rows.Close()
	var out []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, translateError(err, "scan service")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "list services")
	}
	return out, nil
}

func scanService(row rowScanner) (*entity.Service, error) {
	var s entity.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
