package confirm_payment

import (
	"context"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/internal/integrations/webpay"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByPaymentToken(ctx context.Context, token string) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	// ApplyOutcome выполняет терминальный переход pending-брони
	ApplyOutcome(ctx context.Context, id int64, status domain.ReservationStatus, paymentRecord string) error
}

// WebpayClient интерфейс клиента платежного шлюза
type WebpayClient interface {
	Commit(ctx context.Context, token string) (*webpay.CommitResponse, error)
}

// EventPublisher интерфейс публикации событий броней
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, eventType string, r *domain.Reservation) error
}

// Metrics интерфейс счетчиков обработки платежных коллбэков
type Metrics interface {
	IncPaymentCallback(result string)
	IncReservationConfirmed()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
