package reservations

import (
	"context"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	GetByVenueWithFilter(ctx context.Context, filter domain.VenueReservationsFilter) ([]*domain.Reservation, error)
	// Cancel выполняет CAS-переход pending-брони в cancelled
	Cancel(ctx context.Context, id int64) error
}

// VenueRepository интерфейс репозитория кортов
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

// EventPublisher интерфейс публикации событий броней
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, eventType string, r *domain.Reservation) error
}

// Metrics интерфейс счетчиков отмен броней
type Metrics interface {
	IncReservationCancelled(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
