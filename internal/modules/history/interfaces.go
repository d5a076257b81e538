package history

import (
	"context"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
)

type HistoryReader interface {
	ListByReservation(ctx context.Context, reservationID int64) ([]domain.HistoryEntry, error)
}

// ReservationReader resolves the reservation so ownership can be
// checked before exposing its audit trail.
type ReservationReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
}
