package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFinalizerWithMocks() (*Finalizer, *serviceMocks) {
	m := &serviceMocks{
		reservations: new(MockReservationRepo),
		resources:    new(MockResourceCatalog),
		history:      new(MockHistoryRecorder),
		notifs:       new(MockNotificationSender),
		users:        new(MockUserDirectory),
	}
	return NewFinalizer(m.reservations, m.resources, m.history, m.notifs, m.users), m
}

func expiredReservation(id, userID int64) domain.Reservation {
	end := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return domain.Reservation{
		ID:         id,
		UserID:     userID,
		ResourceID: 10,
		StartTime:  end.Add(-2 * time.Hour),
		EndTime:    end,
		State:      domain.ReservationActive,
	}
}

func TestFinalizer_Run_NoExpired(t *testing.T) {
	f, m := newFinalizerWithMocks()

	m.reservations.On("ListExpired", mock.Anything, mock.Anything).Return([]domain.Reservation{}, nil)

	n, err := f.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	m.users.AssertNotCalled(t, "GetAdminIDs", mock.Anything)
}

func TestFinalizer_Run_FinalizesAndNotifies(t *testing.T) {
	f, m := newFinalizerWithMocks()

	expired := []domain.Reservation{expiredReservation(42, 7)}
	m.reservations.On("ListExpired", mock.Anything, mock.Anything).Return(expired, nil)
	m.users.On("GetAdminIDs", mock.Anything).Return([]int64{1, 2}, nil)
	m.reservations.On("UpdateState", mock.Anything, int64(42), domain.ReservationActive, domain.ReservationFinalized).Return(true, nil)
	m.resources.On("GetByID", mock.Anything, int64(10)).Return(bookableLab(), nil)
	// Attributed to the first admin, not the owner.
	m.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.HistoryEntry) bool {
		return e.Action == domain.HistoryFinalized && e.UserID == 1 && e.ReservationID == 42
	})).Return(nil)
	m.notifs.On("Send", mock.Anything, int64(7), domain.NotifReservationFinalized, mock.Anything, mock.Anything).Return(nil)
	m.notifs.On("Send", mock.Anything, int64(1), domain.NotifReservationFinalized, mock.Anything, mock.Anything).Return(nil)
	m.notifs.On("Send", mock.Anything, int64(2), domain.NotifReservationFinalized, mock.Anything, mock.Anything).Return(nil)

	n, err := f.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	m.history.AssertExpectations(t)
	m.notifs.AssertExpectations(t)
}

func TestFinalizer_Run_NoAdminsFallsBackToOwner(t *testing.T) {
	f, m := newFinalizerWithMocks()

	expired := []domain.Reservation{expiredReservation(42, 7)}
	m.reservations.On("ListExpired", mock.Anything, mock.Anything).Return(expired, nil)
	m.users.On("GetAdminIDs", mock.Anything).Return([]int64{}, nil)
	m.reservations.On("UpdateState", mock.Anything, int64(42), domain.ReservationActive, domain.ReservationFinalized).Return(true, nil)
	m.resources.On("GetByID", mock.Anything, int64(10)).Return(bookableLab(), nil)
	m.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.HistoryEntry) bool {
		return e.UserID == 7
	})).Return(nil)
	m.notifs.On("Send", mock.Anything, int64(7), domain.NotifReservationFinalized, mock.Anything, mock.Anything).Return(nil)

	n, err := f.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	m.history.AssertExpectations(t)
}

func TestFinalizer_Run_SkipsAlreadyTransitioned(t *testing.T) {
	f, m := newFinalizerWithMocks()

	expired := []domain.Reservation{expiredReservation(42, 7)}
	m.reservations.On("ListExpired", mock.Anything, mock.Anything).Return(expired, nil)
	m.users.On("GetAdminIDs", mock.Anything).Return([]int64{1}, nil)
	// A concurrent cancel won; nothing else must happen for this record.
	m.reservations.On("UpdateState", mock.Anything, int64(42), domain.ReservationActive, domain.ReservationFinalized).Return(false, nil)

	n, err := f.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	m.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	m.notifs.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizer_Run_OneFailureDoesNotStopTheSweep(t *testing.T) {
	f, m := newFinalizerWithMocks()

	expired := []domain.Reservation{expiredReservation(42, 7), expiredReservation(43, 8)}
	m.reservations.On("ListExpired", mock.Anything, mock.Anything).Return(expired, nil)
	m.users.On("GetAdminIDs", mock.Anything).Return([]int64{1}, nil)
	m.reservations.On("UpdateState", mock.Anything, int64(42), domain.ReservationActive, domain.ReservationFinalized).Return(false, errors.New("deadlock"))
	m.reservations.On("UpdateState", mock.Anything, int64(43), domain.ReservationActive, domain.ReservationFinalized).Return(true, nil)
	m.resources.On("GetByID", mock.Anything, int64(10)).Return(bookableLab(), nil)
	m.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.HistoryEntry) bool {
		return e.ReservationID == 43
	})).Return(nil)
	m.notifs.On("Send", mock.Anything, mock.Anything, domain.NotifReservationFinalized, mock.Anything, mock.Anything).Return(nil)

	n, err := f.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	m.history.AssertExpectations(t)
}

func TestFinalizer_Run_ListError(t *testing.T) {
	f, m := newFinalizerWithMocks()

	m.reservations.On("ListExpired", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.Run(context.Background())
	assert.Error(t, err)
}
