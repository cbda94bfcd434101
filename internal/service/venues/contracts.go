package venues

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
)

// VenueRepository интерфейс репозитория кортов
type VenueRepository interface {
	Create(ctx context.Context, v *domain.Venue) (*domain.Venue, error)
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	ListActive(ctx context.Context) ([]*domain.Venue, error)
	ListByAdmin(ctx context.Context, adminID int64) ([]*domain.Venue, error)
	Update(ctx context.Context, v *domain.Venue) error
	Deactivate(ctx context.Context, id int64) error
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByVenueWithFilter(ctx context.Context, filter domain.VenueReservationsFilter) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями.
// Корт и окна расписания меняются в двух таблицах, транзакция
// не дает читателям увидеть корт без расписания.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// VenueCache интерфейс кеша списка кортов
type VenueCache interface {
	GetVenues(ctx context.Context) ([]*domain.Venue, error)
	SetVenues(ctx context.Context, venues []*domain.Venue) error
	InvalidateVenues(ctx context.Context) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
