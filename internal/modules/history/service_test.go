package history

import (
	"context"
	"testing"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockHistoryReader struct {
	mock.Mock
}

func (m *MockHistoryReader) ListByReservation(ctx context.Context, reservationID int64) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

type MockReservationReader struct {
	mock.Mock
}

func (m *MockReservationReader) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func TestService_ListForReservation_Owner(t *testing.T) {
	entries := new(MockHistoryReader)
	reservations := new(MockReservationReader)
	service := NewService(entries, reservations)

	reservations.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{ID: 42, UserID: 7}, nil)
	entries.On("ListByReservation", mock.Anything, int64(42)).Return([]domain.HistoryEntry{
		{ID: 1, ReservationID: 42, Action: domain.HistoryCreated},
		{ID: 2, ReservationID: 42, Action: domain.HistoryCancelledUser},
	}, nil)

	got, err := service.ListForReservation(context.Background(), 7, false, 42)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, domain.HistoryCreated, got[0].Action)
}

func TestService_ListForReservation_StrangerForbidden(t *testing.T) {
	entries := new(MockHistoryReader)
	reservations := new(MockReservationReader)
	service := NewService(entries, reservations)

	reservations.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{ID: 42, UserID: 7}, nil)

	_, err := service.ListForReservation(context.Background(), 8, false, 42)
	assert.ErrorIs(t, err, ErrForbidden)
	entries.AssertNotCalled(t, "ListByReservation", mock.Anything, mock.Anything)
}

func TestService_ListForReservation_AdminAllowed(t *testing.T) {
	entries := new(MockHistoryReader)
	reservations := new(MockReservationReader)
	service := NewService(entries, reservations)

	reservations.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{ID: 42, UserID: 7}, nil)
	entries.On("ListByReservation", mock.Anything, int64(42)).Return([]domain.HistoryEntry{}, nil)

	_, err := service.ListForReservation(context.Background(), 1, true, 42)
	assert.NoError(t, err)
}

func TestService_ListForReservation_NotFound(t *testing.T) {
	entries := new(MockHistoryReader)
	reservations := new(MockReservationReader)
	service := NewService(entries, reservations)

	reservations.On("GetByID", mock.Anything, int64(42)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.ListForReservation(context.Background(), 7, false, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
