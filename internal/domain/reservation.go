package domain

import (
	"fmt"
	"time"
)

// ReservationState is the closed set of lifecycle states. The string
// values are the wire tokens persisted in reservas.estado and must not
// change: existing rows and API consumers depend on them.
type ReservationState string

const (
	ReservationActive    ReservationState = "activa"
	ReservationCancelled ReservationState = "cancelada"
	ReservationFinalized ReservationState = "finalizada"
)

func ParseReservationState(s string) (ReservationState, error) {
	switch ReservationState(s) {
	case ReservationActive, ReservationCancelled, ReservationFinalized:
		return ReservationState(s), nil
	}
	return "", fmt.Errorf("unknown reservation state %q", s)
}

// Terminal states admit no further transitions.
func (s ReservationState) Terminal() bool {
	return s == ReservationCancelled || s == ReservationFinalized
}

type Reservation struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	ResourceID int64            `json:"recurso_id"`
	StartTime  time.Time        `json:"fecha_inicio"`
	EndTime    time.Time        `json:"fecha_fin"`
	State      ReservationState `json:"estado"`
	Comment    string           `json:"comentarios,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
