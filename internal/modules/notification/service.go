package notification

import (
	"context"
	"errors"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

const defaultListLimit = 50

// Service stores and serves in-app notifications. It doubles as the
// sender the reservation engine uses for its fire-and-forget side
// effects.
type Service struct {
	repo NotificationRepositoryInterface
}

func NewService(repo NotificationRepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Send persists a notification for the user. It satisfies the engine's
// sender contract.
func (s *Service) Send(ctx context.Context, userID int64, t domain.NotificationType, title, message string) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) List(ctx context.Context, userID int64, onlyUnread bool) ([]domain.Notification, int64, error) {
	items, err := s.repo.GetByUserID(ctx, userID, onlyUnread, defaultListLimit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	err := s.repo.MarkAsRead(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
