package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/internal/integrations/webpay"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	AttachPaymentToken(ctx context.Context, id int64, token string) error
	// Delete компенсирующее удаление pending-брони при сбое платежного шлюза
	Delete(ctx context.Context, id int64) error
}

// VenueRepository интерфейс репозитория кортов
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

// WebpayClient интерфейс клиента платежного шлюза
type WebpayClient interface {
	Create(ctx context.Context, req webpay.CreateRequest) (*webpay.CreateResponse, error)
}

// EventPublisher интерфейс публикации событий броней
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, eventType string, r *domain.Reservation) error
}

// Metrics интерфейс счетчиков созданных броней
type Metrics interface {
	IncReservationCreated()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
