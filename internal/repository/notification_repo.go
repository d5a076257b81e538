package repository

import (
	"context"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificacionModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id"`
	Tipo      string    `gorm:"column:tipo"`
	Titulo    string    `gorm:"column:titulo"`
	Mensaje   *string   `gorm:"column:mensaje"`
	Leida     bool      `gorm:"column:leida"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (notificacionModel) TableName() string { return "notificaciones" }

func toDomainNotification(m notificacionModel) *domain.Notification {
	n := &domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Tipo),
		Title:     m.Titulo,
		IsRead:    m.Leida,
		CreatedAt: m.CreatedAt,
	}
	if m.Mensaje != nil {
		n.Message = *m.Mensaje
	}
	return n
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificacionModel{
		UserID: n.UserID,
		Tipo:   string(n.Type),
		Titulo: n.Title,
		Leida:  n.IsRead,
	}
	if n.Message != "" {
		v := n.Message
		m.Mensaje = &v
	}

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*n = *toDomainNotification(m)
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Model(&notificacionModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if onlyUnread {
		q = q.Where("leida = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []notificacionModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificacionModel{}).
		Where("user_id = ? AND leida = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificacionModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("leida", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificacionModel{}).
		Where("user_id = ? AND leida = ?", userID, false).
		Update("leida", true).Error
}
