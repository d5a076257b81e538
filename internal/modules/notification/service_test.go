package notification

import (
	"context"
	"testing"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepo) GetByUserID(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, onlyUnread, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestService_Send_PersistsNotification(t *testing.T) {
	repo := new(MockNotificationRepo)
	service := NewService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 7 && n.Type == domain.NotifReservationCreated && !n.IsRead
	})).Return(nil)

	err := service.Send(context.Background(), 7, domain.NotifReservationCreated, "Reserva creada correctamente", "detalle")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_List_ReturnsUnreadCount(t *testing.T) {
	repo := new(MockNotificationRepo)
	service := NewService(repo)

	repo.On("GetByUserID", mock.Anything, int64(7), true, defaultListLimit).Return([]domain.Notification{
		{ID: 1, UserID: 7, IsRead: false},
	}, nil)
	repo.On("CountUnread", mock.Anything, int64(7)).Return(int64(1), nil)

	items, unread, err := service.List(context.Background(), 7, true)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), unread)
}

func TestService_MarkAsRead_NotOwned(t *testing.T) {
	repo := new(MockNotificationRepo)
	service := NewService(repo)

	repo.On("MarkAsRead", mock.Anything, int64(5), int64(7)).Return(gorm.ErrRecordNotFound)

	err := service.MarkAsRead(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
