package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/reservation"
	venueRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/reservations/models"
)

// CancelReasonUser причина отмены для метрик
const CancelReasonUser = "user"

// Service сервис для работы с бронированиями
type Service struct {
	reservationRepo ReservationRepository
	venueRepo       VenueRepository
	events          EventPublisher
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	venueRepo VenueRepository,
	events EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		venueRepo:       venueRepo,
		events:          events,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetByID получает бронь по ID
// Доступ есть у владельца брони и у администратора корта
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, reservation, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// GetUserReservations получает историю броней пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// GetVenueReservations получает брони корта с фильтрацией по дате и статусам
// Доступно только администратору корта
func (s *Service) GetVenueReservations(ctx context.Context, req *models.GetVenueReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetVenueReservations: fetching reservations for venue=%d, user=%d", req.VenueID, req.UserID)

	if err := s.checkAdminAccess(ctx, req.VenueID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetVenueReservations: invalid filter for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByVenueWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetVenueReservations: repository error for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: GetVenueReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetVenueReservations: successfully fetched %d reservations for venue=%d",
		len(reservations), req.VenueID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет pending-бронь по инициативе пользователя.
// Подтвержденную бронь отменить нельзя: деньги уже заплачены.
func (s *Service) Cancel(ctx context.Context, reservationID int64, userID int64) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Отменять бронь может только ее владелец
	if reservation.UserID != userID {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", userID, reservationID)
		return ErrAccessDenied
	}

	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, reservation.Status)
		return ErrCannotCancel
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID); err != nil {
		// Проигравший гонку переход: бронь успела стать терминальной
		// между чтением и обновлением
		if errors.Is(err, reservationRepo.ErrNotPending) {
			s.logger.Warn("Cancel: reservation id=%d already terminal", reservationID)
			return ErrCannotCancel
		}
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found during cancellation", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.metrics.IncReservationCancelled(CancelReasonUser)

	if s.events != nil {
		reservation.Status = domain.StatusCancelled
		if err := s.events.PublishReservationEvent(ctx, events.TypeReservationCancelled, reservation); err != nil {
			s.logger.Warn("Cancel: failed to publish event for reservation id=%d: %v", reservationID, err)
		}
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к брони.
// Доступ есть у владельца брони и у администратора корта.
func (s *Service) checkUserAccess(ctx context.Context, reservation *domain.Reservation, userID int64) error {
	if reservation.UserID == userID {
		return nil
	}

	if err := s.checkAdminAccess(ctx, reservation.VenueID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkAdminAccess проверяет, что пользователь администрирует корт
func (s *Service) checkAdminAccess(ctx context.Context, venueID int64, userID int64) error {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			s.logger.Warn("checkAdminAccess: venue id=%d not found", venueID)
			return ErrVenueNotFound
		}
		s.logger.Error("checkAdminAccess: failed to get venue id=%d: %v", venueID, err)
		return fmt.Errorf("%w: checkAdminAccess - repository error: %v", ErrInternal, err)
	}

	if venue.AdminID != userID {
		s.logger.Warn("checkAdminAccess: user=%d is not admin of venue id=%d", userID, venueID)
		return ErrAccessDenied
	}

	return nil
}
