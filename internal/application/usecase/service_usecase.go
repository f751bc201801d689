package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var errServiceNotFound = domain.NewBusiness("SERVICE_NOT_FOUND", "servicio no encontrado")

// ServiceUseCase catálogo de servicios (sin stock). El borrado es lógico.
type ServiceUseCase struct {
	repo repository.ServiceRepository
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(repo repository.ServiceRepository) *ServiceUseCase {
	return &ServiceUseCase{repo: repo}
}

// List servicios activos; con includeInactive también los dados de baja.
func (uc *ServiceUseCase) List(ctx context.Context, includeInactive bool) ([]dto.ServiceResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceResponse(s))
	}
	return out, nil
}

// Create da de alta un servicio activo.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	name := cleanName(in.Name)
	if name == "" {
		return nil, domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidation("INVALID_PRICE", "el precio no puede ser negativo")
	}
	now := time.Now()
	s := &entity.Service{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := toServiceResponse(s)
	return &out, nil
}

// Update modifica los campos presentes.
func (uc *ServiceUseCase) Update(ctx context.Context, id string, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errServiceNotFound
	}
	if in.Name != nil {
		name := cleanName(*in.Name)
		if name == "" {
			return nil, domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
		}
		s.Name = name
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidation("INVALID_PRICE", "el precio no puede ser negativo")
		}
		s.Price = in.Price.Round(2)
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := toServiceResponse(s)
	return &out, nil
}

// Delete marca el servicio como inactivo. Repetirlo no es error.
func (uc *ServiceUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return errServiceNotFound
	}
	if !s.Active {
		return nil
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, s)
}

func toServiceResponse(s *entity.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
	}
}
