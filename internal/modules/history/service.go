package history

import (
	"context"
	"errors"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	entries      HistoryReader
	reservations ReservationReader
}

func NewService(entries HistoryReader, reservations ReservationReader) *Service {
	return &Service{entries: entries, reservations: reservations}
}

// ListForReservation returns the audit trail, oldest first. Only the
// reservation owner and admins may read it.
func (s *Service) ListForReservation(ctx context.Context, userID int64, isAdmin bool, reservationID int64) ([]domain.HistoryEntry, error) {
	r, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && r.UserID != userID {
		return nil, ErrForbidden
	}

	return s.entries.ListByReservation(ctx, reservationID)
}
