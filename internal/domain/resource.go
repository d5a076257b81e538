package domain

import "time"

// Resource lifecycle values persisted in recursos.estado.
const (
	ResourceInactive = 0
	ResourceActive   = 1
	ResourceDeleted  = 2
)

type ResourceType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre" validate:"required,max=100"`
	Description string    `json:"descripcion,omitempty"`
	State       int       `json:"estado"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Resource struct {
	ID          int64     `json:"id"`
	TypeID      int64     `json:"tipo_recurso_id" validate:"required"`
	Name        string    `json:"nombre" validate:"required,max=100"`
	Description string    `json:"descripcion,omitempty"`
	Location    string    `json:"ubicacion,omitempty"`
	Capacity    int       `json:"capacidad,omitempty"`
	Available   bool      `json:"disponibilidad_general"`
	State       int       `json:"estado"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bookable reports whether new reservations may target this resource.
func (r *Resource) Bookable() bool {
	return r.State == ResourceActive && r.Available
}
