package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	venueRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/venue"
)

// UseCase use case для получения доступных слотов корта на дату
type UseCase struct {
	reservationRepo ReservationRepository
	venueRepo       VenueRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	venueRepo VenueRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		venueRepo:       venueRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: venue=%d, date=%s", req.VenueID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата в прошлом не обслуживается
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем корт с расписанием
	venue, err := uc.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("GetAvailableSlots: venue id=%d not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	if !venue.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: venue id=%d is not active", req.VenueID)
		return nil, ErrVenueNotFound
	}

	// 4. Окна расписания на день недели запрошенной даты
	windows := venue.Schedule.WindowsFor(req.Date.Weekday())
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: venue id=%d has no schedule for %s", req.VenueID, req.Date.Weekday())
		return &Response{
			VenueID: req.VenueID,
			Date:    req.Date,
			Slots:   []Slot{},
		}, nil
	}

	// 5. Нарезаем окна на часовые слоты
	slots := enumerateSlots(windows)

	// 6. Получаем live-бронирования на эту дату
	date := domain.NormalizeDate(req.Date)
	filter := domain.VenueReservationsFilter{
		VenueID:  req.VenueID,
		Date:     &date,
		Statuses: domain.LiveStatuses,
	}

	reservations, err := uc.reservationRepo.GetByVenueWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 7. Помечаем занятые слоты
	slots = markOccupied(slots, reservations)

	uc.logger.Info("GetAvailableSlots: venue=%d, date=%s, slots=%d, reservations=%d",
		req.VenueID, req.Date.Format(domain.DateFormat), len(slots), len(reservations))

	return &Response{
		VenueID: req.VenueID,
		Date:    req.Date,
		Slots:   slots,
	}, nil
}
