package catalog

import "github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

type CreateTypeRequest struct {
	Name        string `json:"nombre" validate:"required,max=100"`
	Description string `json:"descripcion" validate:"max=255"`
}

type UpdateTypeRequest struct {
	Name        *string `json:"nombre" validate:"omitempty,max=100"`
	Description *string `json:"descripcion" validate:"omitempty,max=255"`
	State       *int    `json:"estado" validate:"omitempty,oneof=0 1"`
}

type CreateResourceRequest struct {
	TypeID      int64  `json:"tipo_recurso_id" validate:"required"`
	Name        string `json:"nombre" validate:"required,max=100"`
	Description string `json:"descripcion" validate:"max=255"`
	Location    string `json:"ubicacion" validate:"max=255"`
	Capacity    int    `json:"capacidad" validate:"omitempty,min=1"`
	Available   *bool  `json:"disponibilidad_general"`
}

type UpdateResourceRequest struct {
	TypeID      *int64  `json:"tipo_recurso_id"`
	Name        *string `json:"nombre" validate:"omitempty,max=100"`
	Description *string `json:"descripcion" validate:"omitempty,max=255"`
	Location    *string `json:"ubicacion" validate:"omitempty,max=255"`
	Capacity    *int    `json:"capacidad" validate:"omitempty,min=1"`
	Available   *bool   `json:"disponibilidad_general"`
	State       *int    `json:"estado" validate:"omitempty,oneof=0 1"`
}

type TypeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	State       int    `json:"estado"`
}

type ResourceResponse struct {
	ID          int64  `json:"id"`
	TypeID      int64  `json:"tipo_recurso_id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Location    string `json:"ubicacion,omitempty"`
	Capacity    int    `json:"capacidad,omitempty"`
	Available   bool   `json:"disponibilidad_general"`
	State       int    `json:"estado"`
}

func toTypeResponse(t *domain.ResourceType) TypeResponse {
	return TypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		State:       t.State,
	}
}

func toResourceResponse(r *domain.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		TypeID:      r.TypeID,
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Available:   r.Available,
		State:       r.State,
	}
}
