package reservation

import (
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/apitime"
)

type CreateRequest struct {
	ResourceID int64        `json:"recurso_id" binding:"required"`
	Start      apitime.Time `json:"fecha_inicio" binding:"required"`
	End        apitime.Time `json:"fecha_fin" binding:"required"`
	Comment    string       `json:"comentarios"`
}

// OwnerUpdateRequest is the allow-listed update shape for non-admins:
// only dates and comment are mutable.
type OwnerUpdateRequest struct {
	Start   apitime.Time `json:"fecha_inicio" binding:"required"`
	End     apitime.Time `json:"fecha_fin" binding:"required"`
	Comment *string      `json:"comentarios"`
}

// AdminUpdateRequest is the allow-listed update shape for admins. All
// fields are optional partial updates. user_id is absent on purpose:
// the owning user of a reservation is immutable forever.
type AdminUpdateRequest struct {
	ResourceID *int64        `json:"recurso_id"`
	Start      *apitime.Time `json:"fecha_inicio"`
	End        *apitime.Time `json:"fecha_fin"`
	State      *string       `json:"estado"`
	Comment    *string       `json:"comentarios"`
}

var ownerAllowedFields = []string{"fecha_inicio", "fecha_fin", "comentarios"}

var adminAllowedFields = []string{"recurso_id", "fecha_inicio", "fecha_fin", "estado", "comentarios"}

// ListQuery carries the admin-only listing filters. Non-admin callers
// always see their own reservations only.
type ListQuery struct {
	State      string
	UserID     *int64
	ResourceID *int64
	From       *time.Time
	Until      *time.Time
}

type Response struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	ResourceID int64        `json:"recurso_id"`
	Start      apitime.Time `json:"fecha_inicio"`
	End        apitime.Time `json:"fecha_fin"`
	State      string       `json:"estado"`
	Comment    string       `json:"comentarios,omitempty"`
}

func toResponse(r *domain.Reservation) Response {
	return Response{
		ID:         r.ID,
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		Start:      apitime.New(r.StartTime),
		End:        apitime.New(r.EndTime),
		State:      string(r.State),
		Comment:    r.Comment,
	}
}

func toResponses(rs []domain.Reservation) []Response {
	out := make([]Response, 0, len(rs))
	for i := range rs {
		out = append(out, toResponse(&rs[i]))
	}
	return out
}
