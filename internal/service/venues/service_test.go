package venues

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	venueRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/venues/models"
	"github.com/m04kA/SMC-CourtRentalService/pkg/ptr"
)

// Mock структуры

type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) Create(ctx context.Context, v *domain.Venue) (*domain.Venue, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

func (m *MockVenueRepository) ListActive(ctx context.Context) ([]*domain.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Venue), args.Error(1)
}

func (m *MockVenueRepository) ListByAdmin(ctx context.Context, adminID int64) ([]*domain.Venue, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Venue), args.Error(1)
}

func (m *MockVenueRepository) Update(ctx context.Context, v *domain.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVenueRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetVenues(ctx context.Context) ([]*domain.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Venue), args.Error(1)
}

func (m *MockCache) SetVenues(ctx context.Context, venues []*domain.Venue) error {
	args := m.Called(ctx, venues)
	return args.Error(0)
}

func (m *MockCache) InvalidateVenues(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

type testDeps struct {
	vRepo   *MockVenueRepository
	resRepo *MockReservationRepository
	cache   *MockCache
}

func newTestService(now time.Time) (*Service, *testDeps) {
	deps := &testDeps{
		vRepo:   &MockVenueRepository{},
		resRepo: &MockReservationRepository{},
		cache:   &MockCache{},
	}
	svc := &Service{
		venueRepo:       deps.vRepo,
		reservationRepo: deps.resRepo,
		txManager:       fakeTxManager{},
		cache:           deps.cache,
		timeProvider:    &fixedTimeProvider{now: now},
		logger:          nopLogger{},
	}
	return svc, deps
}

func validCreateRequest() *models.CreateVenueRequest {
	return &models.CreateVenueRequest{
		AdminID:     100,
		Name:        "Cancha Central",
		Description: "Cancha de pasto sintetico con iluminacion",
		Price:       15000,
		Schedule: []models.ScheduleWindowDTO{
			{Weekday: 1, StartTime: "09:00", EndTime: "21:00"},
		},
	}
}

func TestCreate_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	deps.vRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Venue")).
		Run(func(args mock.Arguments) {
			v := args.Get(1).(*domain.Venue)
			v.ID = 1
		}).
		Return(&domain.Venue{
			ID:      1,
			AdminID: 100,
			Name:    "Cancha Central",
			Price:   15000,
			Active:  true,
		}, nil).Once()
	deps.cache.On("InvalidateVenues", mock.Anything).Return(nil).Once()

	resp, err := svc.Create(context.Background(), validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.True(t, resp.Active)

	deps.vRepo.AssertExpectations(t)
	deps.cache.AssertExpectations(t)
}

func TestCreate_ValidationErrors(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	testCases := []struct {
		name   string
		mutate func(*models.CreateVenueRequest)
	}{
		{
			name:   "short name",
			mutate: func(r *models.CreateVenueRequest) { r.Name = "ab" },
		},
		{
			name:   "short description",
			mutate: func(r *models.CreateVenueRequest) { r.Description = "short" },
		},
		{
			name:   "zero price",
			mutate: func(r *models.CreateVenueRequest) { r.Price = 0 },
		},
		{
			name: "window start after end",
			mutate: func(r *models.CreateVenueRequest) {
				r.Schedule = []models.ScheduleWindowDTO{{Weekday: 1, StartTime: "21:00", EndTime: "09:00"}}
			},
		},
		{
			name: "invalid weekday",
			mutate: func(r *models.CreateVenueRequest) {
				r.Schedule = []models.ScheduleWindowDTO{{Weekday: 7, StartTime: "09:00", EndTime: "21:00"}}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)

			resp, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, resp)
		})
	}
}

func TestList_CacheHit(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	cached := []*domain.Venue{{ID: 1, Name: "Cancha Central", Active: true}}
	deps.cache.On("GetVenues", mock.Anything).Return(cached, nil).Once()

	resp, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Venues, 1)
	deps.vRepo.AssertNotCalled(t, "ListActive")
}

func TestList_CacheMissFallsBackToDB(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	venues := []*domain.Venue{{ID: 1, Name: "Cancha Central", Active: true}}
	deps.cache.On("GetVenues", mock.Anything).Return(nil, nil).Once()
	deps.vRepo.On("ListActive", mock.Anything).Return(venues, nil).Once()
	deps.cache.On("SetVenues", mock.Anything, venues).Return(nil).Once()

	resp, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Venues, 1)
	deps.cache.AssertExpectations(t)
}

func TestUpdate_AccessDenied(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	deps.vRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Venue{ID: 1, AdminID: 100}, nil).Once()

	resp, err := svc.Update(context.Background(), 1, &models.UpdateVenueRequest{UserID: 42})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, resp)
	deps.vRepo.AssertNotCalled(t, "Update")
}

func TestUpdate_PartialFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	existing := &domain.Venue{
		ID:          1,
		AdminID:     100,
		Name:        "Cancha Central",
		Description: "Cancha de pasto sintetico",
		Price:       15000,
		Active:      true,
	}

	deps.vRepo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()
	deps.vRepo.On("Update", mock.Anything, mock.MatchedBy(func(v *domain.Venue) bool {
		return v.Price == 18000 && v.Name == "Cancha Central"
	})).Return(nil).Once()
	deps.cache.On("InvalidateVenues", mock.Anything).Return(nil).Once()

	resp, err := svc.Update(context.Background(), 1, &models.UpdateVenueRequest{
		UserID: 100,
		Price:  ptr.Ptr(18000.0),
	})

	require.NoError(t, err)
	assert.Equal(t, 18000.0, resp.Price)
}

func TestDeactivate_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	deps.vRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Venue{ID: 1, AdminID: 100, Active: true}, nil).Once()
	deps.resRepo.On("GetByVenueWithFilter", mock.Anything, mock.MatchedBy(func(f domain.VenueReservationsFilter) bool {
		return f.VenueID == 1 && f.FromDate != nil &&
			len(f.Statuses) == 1 && f.Statuses[0] == domain.StatusConfirmed
	})).Return([]*domain.Reservation{}, nil).Once()
	deps.vRepo.On("Deactivate", mock.Anything, int64(1)).Return(nil).Once()
	deps.cache.On("InvalidateVenues", mock.Anything).Return(nil).Once()

	err := svc.Deactivate(context.Background(), 1, 100)

	require.NoError(t, err)
	deps.vRepo.AssertExpectations(t)
}

func TestDeactivate_BlockedByConfirmedReservations(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	deps.vRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Venue{ID: 1, AdminID: 100, Active: true}, nil).Once()
	deps.resRepo.On("GetByVenueWithFilter", mock.Anything, mock.Anything).
		Return([]*domain.Reservation{{ID: 7, Status: domain.StatusConfirmed}}, nil).Once()

	err := svc.Deactivate(context.Background(), 1, 100)

	assert.ErrorIs(t, err, ErrHasActiveReservations)
	deps.vRepo.AssertNotCalled(t, "Deactivate")
}

func TestGetByID_NotFound(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)

	deps.vRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, venueRepo.ErrVenueNotFound).Once()

	resp, err := svc.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrVenueNotFound)
	assert.Nil(t, resp)
}
