package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/reservation"
	venueRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-CourtRentalService/internal/integrations/webpay"
)

// UseCase use case для создания бронирования с инициализацией оплаты.
// Слот удерживается pending-бронью до коллбэка Webpay или истечения
// срока оплаты. Уникальность слота гарантирует частичный уникальный
// индекс в БД, поэтому создание не требует явной блокировки.
type UseCase struct {
	reservationRepo ReservationRepository
	venueRepo       VenueRepository
	webpayClient    WebpayClient
	events          EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger

	holdMinutes int
	returnURL   string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	venueRepo VenueRepository,
	webpayClient WebpayClient,
	events EventPublisher,
	metrics Metrics,
	holdMinutes int,
	returnURL string,
	logger Logger,
) *UseCase {
	if holdMinutes <= 0 {
		holdMinutes = domain.DefaultHoldMinutes
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		venueRepo:       venueRepo,
		webpayClient:    webpayClient,
		events:          events,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		holdMinutes:     holdMinutes,
		returnURL:       returnURL,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, venue=%d, date=%s, time=%s",
		req.UserID, req.VenueID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата в прошлом не бронируется
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateReservation: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем корт, фиксируем цену
	venue, err := uc.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("CreateReservation: venue id=%d not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateReservation: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	if !venue.IsBookable() {
		uc.logger.Warn("CreateReservation: venue id=%d is not active", req.VenueID)
		return nil, ErrVenueNotFound
	}

	// 4. Создаем pending-бронь. Занятый слот отсекает уникальный индекс.
	reservation := &domain.Reservation{
		UserID:    req.UserID,
		VenueID:   req.VenueID,
		Date:      domain.NormalizeDate(req.Date),
		StartTime: req.StartTime,
		Status:    domain.StatusPending,
		Amount:    venue.Price,
		ExpiresAt: now.Add(time.Duration(uc.holdMinutes) * time.Minute),
	}

	created, err := uc.reservationRepo.Create(ctx, reservation)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateReservation: slot taken, venue=%d, date=%s, time=%s",
				req.VenueID, req.Date.Format(domain.DateFormat), req.StartTime)
			return nil, ErrSlotTaken
		}
		uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
		return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: created pending reservation id=%d, expires_at=%s",
		created.ID, created.ExpiresAt.Format(time.RFC3339))

	// 5. Создаем транзакцию Webpay
	payment, err := uc.webpayClient.Create(ctx, webpay.CreateRequest{
		BuyOrder:  buildBuyOrder(created.ID),
		SessionID: buildSessionID(),
		Amount:    created.Amount,
		ReturnURL: uc.returnURL,
	})
	if err != nil {
		// Компенсация: удаляем pending-бронь, иначе слот останется
		// занятым до истечения срока оплаты
		uc.logger.Error("CreateReservation: webpay create failed for reservation id=%d: %v", created.ID, err)
		if delErr := uc.reservationRepo.Delete(ctx, created.ID); delErr != nil {
			uc.logger.Error("CreateReservation: compensating delete failed for reservation id=%d: %v",
				created.ID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentInit, err)
	}

	// 6. Привязываем токен к брони для корреляции коллбэка.
	// Без токена коллбэк не найдет бронь, а слот провиснет занятым до
	// sweeper-а, поэтому компенсация та же, что при сбое шлюза.
	if err := uc.reservationRepo.AttachPaymentToken(ctx, created.ID, payment.Token); err != nil {
		uc.logger.Error("CreateReservation: failed to attach token to reservation id=%d: %v", created.ID, err)
		if delErr := uc.reservationRepo.Delete(ctx, created.ID); delErr != nil {
			uc.logger.Error("CreateReservation: compensating delete failed for reservation id=%d: %v",
				created.ID, delErr)
		}
		return nil, fmt.Errorf("%w: failed to attach payment token: %v", ErrPaymentInit, err)
	}
	created.PaymentToken = &payment.Token

	uc.metrics.IncReservationCreated()

	// 7. Публикуем событие (best-effort)
	if uc.events != nil {
		if err := uc.events.PublishReservationEvent(ctx, events.TypeReservationCreated, created); err != nil {
			uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", created.ID, err)
		}
	}

	uc.logger.Info("CreateReservation: reservation id=%d ready for payment, token=%s", created.ID, payment.Token)

	return &Response{
		ID:           created.ID,
		UserID:       created.UserID,
		VenueID:      created.VenueID,
		Date:         created.Date,
		StartTime:    created.StartTime,
		Status:       string(created.Status),
		Amount:       created.Amount,
		ExpiresAt:    created.ExpiresAt,
		PaymentToken: payment.Token,
		PaymentURL:   payment.URL + "?token_ws=" + payment.Token,
		CreatedAt:    created.CreatedAt,
	}, nil
}

// buildBuyOrder формирует buyOrder для Webpay. Шлюз ограничивает длину
// 26 символами.
func buildBuyOrder(reservationID int64) string {
	order := fmt.Sprintf("RES-%d", reservationID)
	if len(order) > domain.BuyOrderMaxLength {
		order = order[:domain.BuyOrderMaxLength]
	}
	return order
}

// buildSessionID формирует уникальный идентификатор сессии оплаты
func buildSessionID() string {
	return "SESSION-" + uuid.NewString()
}
