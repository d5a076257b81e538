package catalog

import (
	"context"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"
)

type ResourceTypeRepositoryInterface interface {
	Create(ctx context.Context, t *domain.ResourceType) error
	GetByID(ctx context.Context, id int64) (*domain.ResourceType, error)
	List(ctx context.Context) ([]domain.ResourceType, error)
	Update(ctx context.Context, t *domain.ResourceType) error
	SoftDelete(ctx context.Context, id int64) error
	HasResources(ctx context.Context, typeID int64) (bool, error)
}

type ResourceRepositoryInterface interface {
	Create(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, f repository.ResourceFilter) ([]domain.Resource, error)
	Update(ctx context.Context, r *domain.Resource) error
	SoftDelete(ctx context.Context, id int64) error
}

// ReservationChecker guards destructive catalog changes: a resource
// with active reservations cannot be deleted or made unavailable.
type ReservationChecker interface {
	HasActiveForResource(ctx context.Context, resourceID int64) (bool, error)
}
