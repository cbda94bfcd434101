package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/reservations/models"
	"github.com/m04kA/SMC-CourtRentalService/pkg/ptr"
)

// Mock структуры

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByVenueWithFilter(ctx context.Context, filter domain.VenueReservationsFilter) ([]*domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishReservationEvent(ctx context.Context, eventType string, r *domain.Reservation) error {
	args := m.Called(ctx, eventType, r)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) IncReservationCancelled(reason string) {
	m.Called(reason)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type testDeps struct {
	resRepo *MockReservationRepository
	vRepo   *MockVenueRepository
	events  *MockEventPublisher
	metrics *MockMetrics
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		resRepo: &MockReservationRepository{},
		vRepo:   &MockVenueRepository{},
		events:  &MockEventPublisher{},
		metrics: &MockMetrics{},
	}
	svc := NewService(deps.resRepo, deps.vRepo, deps.events, deps.metrics, nopLogger{})
	return svc, deps
}

func testReservation(status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:        7,
		UserID:    42,
		VenueID:   1,
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Status:    status,
		Amount:    15000,
		ExpiresAt: time.Date(2025, 6, 1, 9, 10, 0, 0, time.UTC),
	}
}

func TestGetByID_Owner(t *testing.T) {
	svc, deps := newTestService()

	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(testReservation(domain.StatusConfirmed), nil).Once()

	resp, err := svc.GetByID(context.Background(), 7, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Nil(t, resp.ExpiresAt)

	deps.vRepo.AssertNotCalled(t, "GetByID")
}

func TestGetByID_VenueAdmin(t *testing.T) {
	svc, deps := newTestService()

	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(testReservation(domain.StatusPending), nil).Once()
	deps.vRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Venue{ID: 1, AdminID: 100}, nil).Once()

	resp, err := svc.GetByID(context.Background(), 7, 100)

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	require.NotNil(t, resp.ExpiresAt)
}

func TestGetByID_AccessDenied(t *testing.T) {
	svc, deps := newTestService()

	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(testReservation(domain.StatusConfirmed), nil).Once()
	deps.vRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Venue{ID: 1, AdminID: 100}, nil).Once()

	resp, err := svc.GetByID(context.Background(), 7, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, resp)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, deps := newTestService()

	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(nil, reservationRepo.ErrReservationNotFound).Once()

	resp, err := svc.GetByID(context.Background(), 7, 42)

	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Nil(t, resp)
}

func TestGetUserReservations_WithStatusFilter(t *testing.T) {
	svc, deps := newTestService()

	confirmed := domain.StatusConfirmed
	deps.resRepo.On("GetByUserID", mock.Anything, int64(42), &confirmed).
		Return([]*domain.Reservation{testReservation(domain.StatusConfirmed)}, nil).Once()

	resp, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 42,
		Status: ptr.Ptr("confirmed"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "confirmed", resp.Reservations[0].Status)
}

func TestGetUserReservations_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 42,
		Status: ptr.Ptr("unknown"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, resp)
}

func TestGetVenueReservations_AdminOnly(t *testing.T) {
	svc, deps := newTestService()

	deps.vRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Venue{ID: 1, AdminID: 100}, nil).Twice()

	// Администратор корта получает список
	deps.resRepo.On("GetByVenueWithFilter", mock.Anything, mock.AnythingOfType("domain.VenueReservationsFilter")).
		Return([]*domain.Reservation{testReservation(domain.StatusPending)}, nil).Once()

	resp, err := svc.GetVenueReservations(context.Background(), &models.GetVenueReservationsRequest{
		UserID:  100,
		VenueID: 1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)

	// Чужой пользователь получает отказ
	resp, err = svc.GetVenueReservations(context.Background(), &models.GetVenueReservationsRequest{
		UserID:  42,
		VenueID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, resp)
}

func TestCancel_OwnerPending(t *testing.T) {
	svc, deps := newTestService()

	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(testReservation(domain.StatusPending), nil).Once()
	deps.resRepo.On("Cancel", mock.Anything, int64(7)).Return(nil).Once()
	deps.metrics.On("IncReservationCancelled", CancelReasonUser).Once()
	deps.events.On("PublishReservationEvent", mock.Anything, "reservation.cancelled", mock.Anything).Return(nil).Once()

	err := svc.Cancel(context.Background(), 7, 42)

	require.NoError(t, err)
	deps.resRepo.AssertExpectations(t)
	deps.metrics.AssertExpectations(t)
}

func TestCancel_NotOwner(t *testing.T) {
	svc, deps := newTestService()

	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(testReservation(domain.StatusPending), nil).Once()

	err := svc.Cancel(context.Background(), 7, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
	deps.resRepo.AssertNotCalled(t, "Cancel")
}

func TestCancel_ConfirmedNotCancellable(t *testing.T) {
	svc, deps := newTestService()

	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(testReservation(domain.StatusConfirmed), nil).Once()

	err := svc.Cancel(context.Background(), 7, 42)

	assert.ErrorIs(t, err, ErrCannotCancel)
	deps.resRepo.AssertNotCalled(t, "Cancel")
}

func TestCancel_LostRace(t *testing.T) {
	svc, deps := newTestService()

	// Между чтением и CAS-обновлением бронь стала терминальной
	deps.resRepo.On("GetByID", mock.Anything, int64(7)).Return(testReservation(domain.StatusPending), nil).Once()
	deps.resRepo.On("Cancel", mock.Anything, int64(7)).Return(reservationRepo.ErrNotPending).Once()

	err := svc.Cancel(context.Background(), 7, 42)

	assert.ErrorIs(t, err, ErrCannotCancel)
	deps.metrics.AssertNotCalled(t, "IncReservationCancelled")
}
