package confirm_payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CourtRentalService/internal/integrations/webpay"
)

// UseCase use case подтверждения оплаты по коллбэку Webpay.
// Бронь ищется по токену до вызова commit: подтверждать деньги по
// токену, не привязанному ни к одной брони, нельзя. Терминальный
// переход выполняется CAS-обновлением, поэтому повторный коллбэк по
// уже завершенной брони не меняет ее состояние, а только выбирает
// страницу редиректа по текущему статусу.
type UseCase struct {
	reservationRepo ReservationRepository
	webpayClient    WebpayClient
	events          EventPublisher
	metrics         Metrics
	logger          Logger

	successRedirectURL string
	failureRedirectURL string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	webpayClient WebpayClient,
	events EventPublisher,
	metrics Metrics,
	successRedirectURL string,
	failureRedirectURL string,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:    reservationRepo,
		webpayClient:       webpayClient,
		events:             events,
		metrics:            metrics,
		logger:             logger,
		successRedirectURL: successRedirectURL,
		failureRedirectURL: failureRedirectURL,
	}
}

// Execute обрабатывает возврат плательщика со страницы Webpay
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Token == "" {
		uc.logger.Warn("ConfirmPayment: empty token_ws")
		return nil, ErrInvalidToken
	}

	uc.logger.Info("ConfirmPayment: processing callback, token=%s", req.Token)

	// 1. Ищем бронь по токену
	reservation, err := uc.reservationRepo.GetByPaymentToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("ConfirmPayment: no reservation for token=%s", req.Token)
			uc.metrics.IncPaymentCallback(ResultUnknownToken)
			return &Response{RedirectURL: uc.failureRedirectURL}, ErrUnknownToken
		}
		uc.logger.Error("ConfirmPayment: failed to lookup token=%s: %v", req.Token, err)
		return nil, fmt.Errorf("%w: failed to lookup reservation: %v", ErrInternal, err)
	}

	// 2. Подтверждаем транзакцию у шлюза
	commit, err := uc.webpayClient.Commit(ctx, req.Token)
	if err != nil {
		// Бронь остается pending: при временном сбое шлюза плательщик
		// может не успеть, тогда бронь снимет sweeper по сроку оплаты
		uc.logger.Error("ConfirmPayment: commit failed for reservation id=%d, token=%s: %v",
			reservation.ID, req.Token, err)
		uc.metrics.IncPaymentCallback(ResultCommitFailed)
		return &Response{
			ReservationID: reservation.ID,
			RedirectURL:   uc.failureRedirectURL,
		}, ErrCommitFailed
	}

	// 3. Применяем исход платежа
	if commit.IsApproved() {
		return uc.applyApproved(ctx, reservation, commit)
	}
	return uc.applyRejected(ctx, reservation, commit)
}

func (uc *UseCase) applyApproved(ctx context.Context, reservation *domain.Reservation, commit *webpay.CommitResponse) (*Response, error) {
	record, err := json.Marshal(approvedRecord{
		AuthorizationCode: commit.AuthorizationCode,
		TransactionDate:   commit.TransactionDate,
		CardLast4:         cardLast4(commit.CardDetail.CardNumber),
		Amount:            commit.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal payment record: %v", ErrInternal, err)
	}

	err = uc.reservationRepo.ApplyOutcome(ctx, reservation.ID, domain.StatusConfirmed, string(record))
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotPending) {
			return uc.redirectByCurrentState(ctx, reservation.ID)
		}
		uc.logger.Error("ConfirmPayment: failed to confirm reservation id=%d: %v", reservation.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("ConfirmPayment: reservation id=%d confirmed, auth_code=%s",
		reservation.ID, commit.AuthorizationCode)
	uc.metrics.IncPaymentCallback(ResultAuthorized)
	uc.metrics.IncReservationConfirmed()

	if uc.events != nil {
		reservation.Status = domain.StatusConfirmed
		if err := uc.events.PublishReservationEvent(ctx, events.TypeReservationConfirmed, reservation); err != nil {
			uc.logger.Warn("ConfirmPayment: failed to publish event for reservation id=%d: %v", reservation.ID, err)
		}
	}

	return &Response{
		ReservationID: reservation.ID,
		Confirmed:     true,
		RedirectURL:   uc.successRedirectURL,
	}, nil
}

func (uc *UseCase) applyRejected(ctx context.Context, reservation *domain.Reservation, commit *webpay.CommitResponse) (*Response, error) {
	uc.logger.Warn("ConfirmPayment: payment rejected for reservation id=%d, status=%s, response_code=%d",
		reservation.ID, commit.Status, commit.ResponseCode)

	record, err := json.Marshal(rejectedRecord{
		Status:       commit.Status,
		ResponseCode: commit.ResponseCode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal payment record: %v", ErrInternal, err)
	}

	err = uc.reservationRepo.ApplyOutcome(ctx, reservation.ID, domain.StatusCancelled, string(record))
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotPending) {
			return uc.redirectByCurrentState(ctx, reservation.ID)
		}
		uc.logger.Error("ConfirmPayment: failed to cancel reservation id=%d: %v", reservation.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel reservation: %v", ErrInternal, err)
	}

	uc.metrics.IncPaymentCallback(ResultRejected)

	if uc.events != nil {
		reservation.Status = domain.StatusCancelled
		if err := uc.events.PublishReservationEvent(ctx, events.TypeReservationCancelled, reservation); err != nil {
			uc.logger.Warn("ConfirmPayment: failed to publish event for reservation id=%d: %v", reservation.ID, err)
		}
	}

	return &Response{
		ReservationID: reservation.ID,
		Confirmed:     false,
		RedirectURL:   uc.failureRedirectURL,
	}, nil
}

// redirectByCurrentState выбирает редирект для повторного коллбэка по
// уже завершенной брони
func (uc *UseCase) redirectByCurrentState(ctx context.Context, reservationID int64) (*Response, error) {
	uc.logger.Warn("ConfirmPayment: replayed callback for reservation id=%d", reservationID)
	uc.metrics.IncPaymentCallback(ResultReplay)

	current, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		uc.logger.Error("ConfirmPayment: failed to re-read reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: failed to re-read reservation: %v", ErrInternal, err)
	}

	if current.Status == domain.StatusConfirmed {
		return &Response{
			ReservationID: reservationID,
			Confirmed:     true,
			RedirectURL:   uc.successRedirectURL,
		}, nil
	}

	return &Response{
		ReservationID: reservationID,
		RedirectURL:   uc.failureRedirectURL,
	}, nil
}

// cardLast4 возвращает последние 4 цифры номера карты из ответа шлюза
func cardLast4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
