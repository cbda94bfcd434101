package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	venueRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

// Mock структуры

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) GetByVenueWithFilter(ctx context.Context, filter domain.VenueReservationsFilter) ([]*domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
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

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func mustTime(t *testing.T, v string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(v)
	require.NoError(t, err)
	return ts
}

func testVenue(t *testing.T, schedule domain.WeeklySchedule) *domain.Venue {
	t.Helper()
	return &domain.Venue{
		ID:       1,
		AdminID:  100,
		Name:     "Cancha Central",
		Price:    15000,
		Active:   true,
		Schedule: schedule,
	}
}

func newTestUseCase(resRepo ReservationRepository, vRepo VenueRepository, now time.Time) *UseCase {
	return &UseCase{
		reservationRepo: resRepo,
		venueRepo:       vRepo,
		timeProvider:    &fixedTimeProvider{now: now},
		logger:          nopLogger{},
	}
}

func TestExecute_SlotsFromSingleWindow(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	// Запрос на понедельник, окно 10:00-13:00
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	venue := testVenue(t, domain.WeeklySchedule{
		{Weekday: time.Monday, StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "13:00")},
	})

	mockVenueRepo.On("GetByID", mock.Anything, int64(1)).Return(venue, nil).Once()
	mockResRepo.On("GetByVenueWithFilter", mock.Anything, mock.AnythingOfType("domain.VenueReservationsFilter")).
		Return([]*domain.Reservation{}, nil).Once()

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, mustTime(t, "10:00"), resp.Slots[0].StartTime)
	assert.Equal(t, mustTime(t, "11:00"), resp.Slots[1].StartTime)
	assert.Equal(t, mustTime(t, "12:00"), resp.Slots[2].StartTime)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}

	mockVenueRepo.AssertExpectations(t)
	mockResRepo.AssertExpectations(t)
}

func TestExecute_PartialHourTruncated(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Окно 09:00-11:30: неполный час 11:00-11:30 отбрасывается
	venue := testVenue(t, domain.WeeklySchedule{
		{Weekday: time.Monday, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "11:30")},
	})

	mockVenueRepo.On("GetByID", mock.Anything, int64(1)).Return(venue, nil).Once()
	mockResRepo.On("GetByVenueWithFilter", mock.Anything, mock.AnythingOfType("domain.VenueReservationsFilter")).
		Return([]*domain.Reservation{}, nil).Once()

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, mustTime(t, "09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, mustTime(t, "10:00"), resp.Slots[1].StartTime)
}

func TestExecute_OccupiedSlotsMarked(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	venue := testVenue(t, domain.WeeklySchedule{
		{Weekday: time.Monday, StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "13:00")},
	})

	reservations := []*domain.Reservation{
		{ID: 7, VenueID: 1, StartTime: mustTime(t, "11:00"), Status: domain.StatusPending},
		{ID: 8, VenueID: 1, StartTime: mustTime(t, "12:00"), Status: domain.StatusConfirmed},
	}

	mockVenueRepo.On("GetByID", mock.Anything, int64(1)).Return(venue, nil).Once()
	mockResRepo.On("GetByVenueWithFilter", mock.Anything, mock.AnythingOfType("domain.VenueReservationsFilter")).
		Return(reservations, nil).Once()

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.True(t, resp.Slots[0].Available)  // 10:00
	assert.False(t, resp.Slots[1].Available) // 11:00 - pending занимает слот
	assert.False(t, resp.Slots[2].Available) // 12:00 - confirmed занимает слот
}

func TestExecute_NoWindowsForWeekday(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	// Вторник, расписание есть только на понедельник
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	venue := testVenue(t, domain.WeeklySchedule{
		{Weekday: time.Monday, StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "13:00")},
	})

	mockVenueRepo.On("GetByID", mock.Anything, int64(1)).Return(venue, nil).Once()

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, Date: date})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	mockResRepo.AssertNotCalled(t, "GetByVenueWithFilter")
}

func TestExecute_PastDateRejected(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, Date: date})

	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Nil(t, resp)
	mockVenueRepo.AssertNotCalled(t, "GetByID")
}

func TestExecute_VenueNotFound(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	mockVenueRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, venueRepo.ErrVenueNotFound).Once()

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 99, Date: date})

	assert.ErrorIs(t, err, ErrVenueNotFound)
	assert.Nil(t, resp)
}

func TestExecute_InactiveVenueTreatedAsNotFound(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	venue := testVenue(t, nil)
	venue.Active = false

	mockVenueRepo.On("GetByID", mock.Anything, int64(1)).Return(venue, nil).Once()

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, Date: date})

	assert.ErrorIs(t, err, ErrVenueNotFound)
	assert.Nil(t, resp)
}

func TestExecute_MultipleWindowsSameDay(t *testing.T) {
	mockResRepo := &MockReservationRepository{}
	mockVenueRepo := &MockVenueRepository{}

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Утреннее и вечернее окна
	venue := testVenue(t, domain.WeeklySchedule{
		{Weekday: time.Monday, StartTime: mustTime(t, "18:00"), EndTime: mustTime(t, "20:00")},
		{Weekday: time.Monday, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "11:00")},
	})

	mockVenueRepo.On("GetByID", mock.Anything, int64(1)).Return(venue, nil).Once()
	mockResRepo.On("GetByVenueWithFilter", mock.Anything, mock.AnythingOfType("domain.VenueReservationsFilter")).
		Return([]*domain.Reservation{}, nil).Once()

	uc := newTestUseCase(mockResRepo, mockVenueRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{VenueID: 1, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)
	// Окна отсортированы по времени начала
	assert.Equal(t, mustTime(t, "09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, mustTime(t, "10:00"), resp.Slots[1].StartTime)
	assert.Equal(t, mustTime(t, "18:00"), resp.Slots[2].StartTime)
	assert.Equal(t, mustTime(t, "19:00"), resp.Slots[3].StartTime)
}
