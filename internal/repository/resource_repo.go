package repository

import (
	"context"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

type recursoModel struct {
	ID                    int64     `gorm:"column:id;primaryKey"`
	TipoRecursoID         int64     `gorm:"column:tipo_recurso_id"`
	Nombre                string    `gorm:"column:nombre"`
	Descripcion           *string   `gorm:"column:descripcion"`
	Ubicacion             *string   `gorm:"column:ubicacion"`
	Capacidad             *int      `gorm:"column:capacidad"`
	DisponibilidadGeneral bool      `gorm:"column:disponibilidad_general"`
	Estado                int       `gorm:"column:estado"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (recursoModel) TableName() string { return "recursos" }

func toDomainResource(m recursoModel) *domain.Resource {
	r := &domain.Resource{
		ID:        m.ID,
		TypeID:    m.TipoRecursoID,
		Name:      m.Nombre,
		Available: m.DisponibilidadGeneral,
		State:     m.Estado,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Descripcion != nil {
		r.Description = *m.Descripcion
	}
	if m.Ubicacion != nil {
		r.Location = *m.Ubicacion
	}
	if m.Capacidad != nil {
		r.Capacity = *m.Capacidad
	}
	return r
}

func toRecursoModel(r *domain.Resource) recursoModel {
	m := recursoModel{
		ID:                    r.ID,
		TipoRecursoID:         r.TypeID,
		Nombre:                r.Name,
		DisponibilidadGeneral: r.Available,
		Estado:                r.State,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	if r.Description != "" {
		v := r.Description
		m.Descripcion = &v
	}
	if r.Location != "" {
		v := r.Location
		m.Ubicacion = &v
	}
	if r.Capacity > 0 {
		v := r.Capacity
		m.Capacidad = &v
	}
	return m
}

func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	m := toRecursoModel(res)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*res = *toDomainResource(m)
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	var m recursoModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainResource(m), nil
}

// ResourceFilter narrows List results; deleted resources are never listed.
type ResourceFilter struct {
	TypeID    *int64
	Available *bool
}

func (r *ResourceRepository) List(ctx context.Context, f ResourceFilter) ([]domain.Resource, error) {
	q := r.db.WithContext(ctx).Model(&recursoModel{}).Where("estado = ?", domain.ResourceActive)

	if f.TypeID != nil {
		q = q.Where("tipo_recurso_id = ?", *f.TypeID)
	}
	if f.Available != nil {
		q = q.Where("disponibilidad_general = ?", *f.Available)
	}

	var rows []recursoModel
	if err := q.Order("nombre ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Resource, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainResource(m))
	}
	return out, nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	m := toRecursoModel(res)
	result := r.db.WithContext(ctx).Model(&recursoModel{}).Where("id = ?", res.ID).Updates(map[string]any{
		"tipo_recurso_id":        m.TipoRecursoID,
		"nombre":                 m.Nombre,
		"descripcion":            m.Descripcion,
		"ubicacion":              m.Ubicacion,
		"capacidad":              m.Capacidad,
		"disponibilidad_general": m.DisponibilidadGeneral,
		"estado":                 m.Estado,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete marks the resource as deleted; rows are never removed.
func (r *ResourceRepository) SoftDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&recursoModel{}).
		Where("id = ? AND estado != ?", id, domain.ResourceDeleted).
		Update("estado", domain.ResourceDeleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
