package repository

import (
	"context"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type historialModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ReservaID int64     `gorm:"column:reserva_id"`
	UserID    int64     `gorm:"column:user_id"`
	Accion    string    `gorm:"column:accion"`
	Detalle   *string   `gorm:"column:detalle"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (historialModel) TableName() string { return "historial_reservas" }

// Append inserts one audit entry. There is no update or delete path:
// the table is append-only.
func (r *HistoryRepository) Append(ctx context.Context, e *domain.HistoryEntry) error {
	m := historialModel{
		ReservaID: e.ReservationID,
		UserID:    e.UserID,
		Accion:    string(e.Action),
	}
	if e.Detail != "" {
		v := e.Detail
		m.Detalle = &v
	}

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}

	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	return nil
}

func (r *HistoryRepository) ListByReservation(ctx context.Context, reservationID int64) ([]domain.HistoryEntry, error) {
	var rows []historialModel
	err := r.db.WithContext(ctx).
		Where("reserva_id = ?", reservationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.HistoryEntry, 0, len(rows))
	for _, m := range rows {
		e := domain.HistoryEntry{
			ID:            m.ID,
			ReservationID: m.ReservaID,
			UserID:        m.UserID,
			Action:        domain.HistoryAction(m.Accion),
			CreatedAt:     m.CreatedAt,
		}
		if m.Detalle != nil {
			e.Detail = *m.Detalle
		}
		out = append(out, e)
	}
	return out, nil
}
