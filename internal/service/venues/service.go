package venues

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	venueRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/venues/models"
)

// Service сервис для работы с кортами
type Service struct {
	venueRepo       VenueRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	cache           VenueCache
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(
	venueRepo VenueRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	cache VenueCache,
	logger Logger,
) *Service {
	return &Service{
		venueRepo:       venueRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Create создает новый корт с расписанием
func (s *Service) Create(ctx context.Context, req *models.CreateVenueRequest) (*models.VenueResponse, error) {
	s.logger.Info("Create: creating venue name=%s by admin=%d", req.Name, req.AdminID)

	schedule, err := models.ToDomainSchedule(req.Schedule)
	if err != nil {
		s.logger.Warn("Create: invalid schedule: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	venue := &domain.Venue{
		AdminID:     req.AdminID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Active:      true,
		Schedule:    schedule,
	}

	if err := validateVenue(venue); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Venue
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err = s.venueRepo.Create(txCtx, venue)
		return err
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.invalidateCache(ctx)

	s.logger.Info("Create: successfully created venue id=%d", created.ID)
	return models.FromDomainVenue(created), nil
}

// GetByID получает корт по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.VenueResponse, error) {
	s.logger.Info("GetByID: fetching venue id=%d", id)

	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			s.logger.Warn("GetByID: venue id=%d not found", id)
			return nil, ErrVenueNotFound
		}
		s.logger.Error("GetByID: repository error for venue id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainVenue(venue), nil
}

// List получает все активные корты.
// Список читается из кеша; при промахе или недоступности Redis - из БД.
func (s *Service) List(ctx context.Context) (*models.VenueListResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetVenues(ctx)
		if err != nil {
			s.logger.Warn("List: cache read failed: %v", err)
		} else if cached != nil {
			s.logger.Info("List: served %d venues from cache", len(cached))
			return models.FromDomainVenueList(cached), nil
		}
	}

	venues, err := s.venueRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.SetVenues(ctx, venues); err != nil {
			s.logger.Warn("List: cache write failed: %v", err)
		}
	}

	s.logger.Info("List: successfully fetched %d venues", len(venues))
	return models.FromDomainVenueList(venues), nil
}

// ListByAdmin получает активные корты администратора
func (s *Service) ListByAdmin(ctx context.Context, adminID int64) (*models.VenueListResponse, error) {
	s.logger.Info("ListByAdmin: fetching venues for admin=%d", adminID)

	venues, err := s.venueRepo.ListByAdmin(ctx, adminID)
	if err != nil {
		s.logger.Error("ListByAdmin: repository error for admin=%d: %v", adminID, err)
		return nil, fmt.Errorf("%w: ListByAdmin - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainVenueList(venues), nil
}

// Update обновляет корт и заменяет расписание
// Доступно только администратору корта
func (s *Service) Update(ctx context.Context, venueID int64, req *models.UpdateVenueRequest) (*models.VenueResponse, error) {
	s.logger.Info("Update: updating venue id=%d by user=%d", venueID, req.UserID)

	venue, err := s.getOwnedVenue(ctx, venueID, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.Description != nil {
		venue.Description = *req.Description
	}
	if req.ImageURL != nil {
		venue.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		venue.Price = *req.Price
	}
	if req.Schedule != nil {
		schedule, err := models.ToDomainSchedule(req.Schedule)
		if err != nil {
			s.logger.Warn("Update: invalid schedule for venue id=%d: %v", venueID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		venue.Schedule = schedule
	}

	if err := validateVenue(venue); err != nil {
		s.logger.Warn("Update: validation failed for venue id=%d: %v", venueID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.venueRepo.Update(txCtx, venue)
	})
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		s.logger.Error("Update: repository error for venue id=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.invalidateCache(ctx)

	s.logger.Info("Update: successfully updated venue id=%d", venueID)
	return models.FromDomainVenue(venue), nil
}

// Deactivate выполняет логическое удаление корта
// Корт с будущими подтвержденными бронями деактивировать нельзя:
// пользователи уже заплатили за эти слоты
func (s *Service) Deactivate(ctx context.Context, venueID int64, userID int64) error {
	s.logger.Info("Deactivate: deactivating venue id=%d by user=%d", venueID, userID)

	if _, err := s.getOwnedVenue(ctx, venueID, userID); err != nil {
		return err
	}

	today := domain.NormalizeDate(s.timeProvider.Now())
	filter := domain.VenueReservationsFilter{
		VenueID:  venueID,
		FromDate: &today,
		Statuses: []domain.ReservationStatus{domain.StatusConfirmed},
	}

	confirmed, err := s.reservationRepo.GetByVenueWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("Deactivate: failed to check reservations for venue id=%d: %v", venueID, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	if len(confirmed) > 0 {
		s.logger.Warn("Deactivate: venue id=%d has %d confirmed future reservations", venueID, len(confirmed))
		return ErrHasActiveReservations
	}

	if err := s.venueRepo.Deactivate(ctx, venueID); err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			return ErrVenueNotFound
		}
		s.logger.Error("Deactivate: repository error for venue id=%d: %v", venueID, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.invalidateCache(ctx)

	s.logger.Info("Deactivate: successfully deactivated venue id=%d", venueID)
	return nil
}

// Вспомогательные методы

// getOwnedVenue получает корт и проверяет, что пользователь его администрирует
func (s *Service) getOwnedVenue(ctx context.Context, venueID int64, userID int64) (*domain.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			s.logger.Warn("getOwnedVenue: venue id=%d not found", venueID)
			return nil, ErrVenueNotFound
		}
		s.logger.Error("getOwnedVenue: repository error for venue id=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: getOwnedVenue - repository error: %v", ErrInternal, err)
	}

	if venue.AdminID != userID {
		s.logger.Warn("getOwnedVenue: user=%d is not admin of venue id=%d", userID, venueID)
		return nil, ErrAccessDenied
	}

	return venue, nil
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateVenues(ctx); err != nil {
		s.logger.Warn("invalidateCache: failed to invalidate venue cache: %v", err)
	}
}

// validateVenue проверяет бизнес-правила корта
func validateVenue(v *domain.Venue) error {
	if len(v.Name) < domain.MinVenueNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, domain.MinVenueNameLength)
	}
	if len(v.Description) < domain.MinVenueDescriptionLength {
		return fmt.Errorf("%w: description must be at least %d characters", ErrInvalidInput, domain.MinVenueDescriptionLength)
	}
	if v.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if err := v.Schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
