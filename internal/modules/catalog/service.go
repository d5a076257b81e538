package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"

	"gorm.io/gorm"
)

// Service manages the resource catalog: resource types and the
// reservable resources under them. Deletes are always soft, and
// anything still referenced (a type with resources, a resource with
// active reservations) refuses to go away.
type Service struct {
	types        ResourceTypeRepositoryInterface
	resources    ResourceRepositoryInterface
	reservations ReservationChecker
}

func NewService(types ResourceTypeRepositoryInterface, resources ResourceRepositoryInterface, reservations ReservationChecker) *Service {
	return &Service{
		types:        types,
		resources:    resources,
		reservations: reservations,
	}
}

func (s *Service) CreateType(ctx context.Context, req CreateTypeRequest) (*domain.ResourceType, error) {
	t := &domain.ResourceType{
		Name:        req.Name,
		Description: req.Description,
		State:       domain.ResourceActive,
	}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetType(ctx context.Context, id int64) (*domain.ResourceType, error) {
	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if t.State == domain.ResourceDeleted {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]domain.ResourceType, error) {
	return s.types.List(ctx)
}

func (s *Service) UpdateType(ctx context.Context, id int64, req UpdateTypeRequest) (*domain.ResourceType, error) {
	t, err := s.GetType(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.State != nil {
		t.State = *req.State
	}

	if err := s.types.Update(ctx, t); err != nil {
		return nil, mapNotFound(err)
	}
	return t, nil
}

func (s *Service) DeleteType(ctx context.Context, id int64) error {
	if _, err := s.GetType(ctx, id); err != nil {
		return err
	}

	inUse, err := s.types.HasResources(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrTypeInUse
	}

	return mapNotFound(s.types.SoftDelete(ctx, id))
}

func (s *Service) CreateResource(ctx context.Context, req CreateResourceRequest) (*domain.Resource, error) {
	t, err := s.GetType(ctx, req.TypeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: tipo_recurso_id does not exist", ErrValidation)
		}
		return nil, err
	}
	if t.State != domain.ResourceActive {
		return nil, fmt.Errorf("%w: tipo_recurso_id is not active", ErrValidation)
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	r := &domain.Resource{
		TypeID:      req.TypeID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Available:   available,
		State:       domain.ResourceActive,
	}
	if err := s.resources.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	r, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if r.State == domain.ResourceDeleted {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) ListResources(ctx context.Context, f repository.ResourceFilter) ([]domain.Resource, error) {
	return s.resources.List(ctx, f)
}

// UpdateResource applies a partial update. Making the resource
// unavailable or inactive is refused while it still has active
// reservations, so existing bookings are never stranded.
func (s *Service) UpdateResource(ctx context.Context, id int64, req UpdateResourceRequest) (*domain.Resource, error) {
	r, err := s.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TypeID != nil && *req.TypeID != r.TypeID {
		t, err := s.GetType(ctx, *req.TypeID)
		if err != nil || t.State != domain.ResourceActive {
			return nil, fmt.Errorf("%w: tipo_recurso_id is not active", ErrValidation)
		}
		r.TypeID = *req.TypeID
	}
	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.Location != nil {
		r.Location = *req.Location
	}
	if req.Capacity != nil {
		r.Capacity = *req.Capacity
	}

	disabling := (req.Available != nil && !*req.Available && r.Available) ||
		(req.State != nil && *req.State != domain.ResourceActive && r.State == domain.ResourceActive)
	if disabling {
		busy, err := s.reservations.HasActiveForResource(ctx, id)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, ErrResourceInUse
		}
	}
	if req.Available != nil {
		r.Available = *req.Available
	}
	if req.State != nil {
		r.State = *req.State
	}

	if err := s.resources.Update(ctx, r); err != nil {
		return nil, mapNotFound(err)
	}
	return r, nil
}

func (s *Service) DeleteResource(ctx context.Context, id int64) error {
	if _, err := s.GetResource(ctx, id); err != nil {
		return err
	}

	busy, err := s.reservations.HasActiveForResource(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return ErrResourceInUse
	}

	return mapNotFound(s.resources.SoftDelete(ctx, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
