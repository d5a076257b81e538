package domain

import "time"

type NotificationType string

const (
	NotifReservationCreated   NotificationType = "reserva_creada"
	NotifReservationUpdated   NotificationType = "reserva_actualizada"
	NotifReservationCancelled NotificationType = "reserva_cancelada"
	NotifReservationFinalized NotificationType = "reserva_finalizada"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"tipo"`
	Title     string           `json:"titulo"`
	Message   string           `json:"mensaje,omitempty"`
	IsRead    bool             `json:"leida"`
	CreatedAt time.Time        `json:"created_at"`
}
