package reservation

import (
	"context"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"
)

// ReservationRepository is the persistence contract for the engine.
// Create and Update run the availability + overlap checks and the write
// as one serialized unit per resource (see repository.ReservationRepository).
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	Update(ctx context.Context, r *domain.Reservation, checkConflicts bool) error
	UpdateState(ctx context.Context, id int64, from, to domain.ReservationState) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, f repository.ListFilter) ([]domain.Reservation, error)
	ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error)
}

// ResourceCatalog is the availability lookup the engine consults before
// accepting a reservation.
type ResourceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// HistoryRecorder appends one immutable audit entry per transition.
type HistoryRecorder interface {
	Append(ctx context.Context, e *domain.HistoryEntry) error
}

// NotificationSender dispatches fire-and-forget notifications.
type NotificationSender interface {
	Send(ctx context.Context, userID int64, t domain.NotificationType, title, message string) error
}

// UserDirectory resolves users and the current admin set. The admin set
// is queried fresh per operation, never cached.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAdminIDs(ctx context.Context) ([]int64, error)
}

// Actor is the resolved identity behind a request. The engine trusts it
// unconditionally; authentication happens at the middleware boundary.
type Actor struct {
	ID   int64
	Role domain.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}
