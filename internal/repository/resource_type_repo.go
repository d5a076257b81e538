package repository

import (
	"context"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"gorm.io/gorm"
)

type ResourceTypeRepository struct {
	db *gorm.DB
}

func NewResourceTypeRepository(db *gorm.DB) *ResourceTypeRepository {
	return &ResourceTypeRepository{db: db}
}

type tipoRecursoModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Nombre      string    `gorm:"column:nombre"`
	Descripcion *string   `gorm:"column:descripcion"`
	Estado      int       `gorm:"column:estado"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (tipoRecursoModel) TableName() string { return "tipo_recursos" }

func toDomainResourceType(m tipoRecursoModel) *domain.ResourceType {
	t := &domain.ResourceType{
		ID:        m.ID,
		Name:      m.Nombre,
		State:     m.Estado,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Descripcion != nil {
		t.Description = *m.Descripcion
	}
	return t
}

func (r *ResourceTypeRepository) Create(ctx context.Context, t *domain.ResourceType) error {
	m := tipoRecursoModel{
		Nombre: t.Name,
		Estado: t.State,
	}
	if t.Description != "" {
		v := t.Description
		m.Descripcion = &v
	}

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainResourceType(m)
	return nil
}

func (r *ResourceTypeRepository) GetByID(ctx context.Context, id int64) (*domain.ResourceType, error) {
	var m tipoRecursoModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainResourceType(m), nil
}

func (r *ResourceTypeRepository) List(ctx context.Context) ([]domain.ResourceType, error) {
	var rows []tipoRecursoModel
	err := r.db.WithContext(ctx).
		Where("estado = ?", domain.ResourceActive).
		Order("nombre ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResourceType, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainResourceType(m))
	}
	return out, nil
}

func (r *ResourceTypeRepository) Update(ctx context.Context, t *domain.ResourceType) error {
	var descripcion *string
	if t.Description != "" {
		v := t.Description
		descripcion = &v
	}

	result := r.db.WithContext(ctx).Model(&tipoRecursoModel{}).Where("id = ?", t.ID).Updates(map[string]any{
		"nombre":      t.Name,
		"descripcion": descripcion,
		"estado":      t.State,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ResourceTypeRepository) SoftDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&tipoRecursoModel{}).
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

// HasResources reports whether any non-deleted resource references the type.
func (r *ResourceTypeRepository) HasResources(ctx context.Context, typeID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&recursoModel{}).
		Where("tipo_recurso_id = ? AND estado != ?", typeID, domain.ResourceDeleted).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
