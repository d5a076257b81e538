package domain

import "time"

// HistoryAction tags are wire tokens shared with the existing data set.
type HistoryAction string

const (
	HistoryCreated        HistoryAction = "creada"
	HistoryUpdatedByAdmin HistoryAction = "actualizada_admin"
	HistoryUpdatedByUser  HistoryAction = "actualizada_usuario"
	HistoryCancelledAdmin HistoryAction = "cancelada_admin"
	HistoryCancelledUser  HistoryAction = "cancelada_usuario"
	HistoryFinalized      HistoryAction = "finalizada"
)

// HistoryEntry is an append-only audit record. Entries are written once
// per state transition and never mutated.
type HistoryEntry struct {
	ID            int64         `json:"id"`
	ReservationID int64         `json:"reserva_id"`
	UserID        int64         `json:"user_id"`
	Action        HistoryAction `json:"accion"`
	Detail        string        `json:"detalle,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
