package notification

import (
	"context"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByUserID(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}
