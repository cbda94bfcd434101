package expiry

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/internal/infra/events"
)

// expiredRecord запись об исходе платежа для снятых по сроку броней
const expiredRecord = `{"reason":"payment_hold_expired"}`

// CancelReasonExpired причина отмены для метрик
const CancelReasonExpired = "expired"

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// ExpireBefore снимает все pending-брони с истекшим сроком оплаты
	// и возвращает снятые строки
	ExpireBefore(ctx context.Context, deadline time.Time, paymentRecord string) ([]*domain.Reservation, error)
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

// Sweeper периодически снимает pending-брони с истекшим сроком оплаты,
// освобождая их слоты. Переход выполняется тем же условием
// status = 'pending', что и у коллбэка оплаты, поэтому гонка между
// sweeper и поздним коллбэком разрешается на уровне БД: выигрывает
// ровно один переход.
type Sweeper struct {
	reservationRepo ReservationRepository
	events          EventPublisher
	metrics         Metrics
	logger          Logger

	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
}

// NewSweeper создает новый экземпляр sweeper
func NewSweeper(
	reservationRepo ReservationRepository,
	events EventPublisher,
	metrics Metrics,
	interval time.Duration,
	logger Logger,
) *Sweeper {
	if interval <= 0 {
		interval = time.Duration(domain.DefaultSweepIntervalSeconds) * time.Second
	}
	return &Sweeper{
		reservationRepo: reservationRepo,
		events:          events,
		metrics:         metrics,
		logger:          logger,
		interval:        interval,
		done:            make(chan struct{}),
		stopped:         make(chan struct{}),
	}
}

// Start запускает фоновый цикл снятия просроченных броней.
// Блокируется до вызова Stop, запускать в отдельной горутине.
func (s *Sweeper) Start(ctx context.Context) {
	defer close(s.stopped)

	s.logger.Info("Sweeper: started, interval=%s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.done:
			s.logger.Info("Sweeper: stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Sweeper: context cancelled")
			return
		}
	}
}

// Stop останавливает цикл и дожидается завершения текущей итерации
func (s *Sweeper) Stop() {
	close(s.done)
	<-s.stopped
}

// sweep выполняет одну итерацию: снимает все брони с истекшим сроком
func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.reservationRepo.ExpireBefore(ctx, time.Now(), expiredRecord)
	if err != nil {
		s.logger.Error("Sweeper: failed to expire reservations: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	s.logger.Info("Sweeper: expired %d reservations", len(expired))

	for _, r := range expired {
		s.metrics.IncReservationCancelled(CancelReasonExpired)

		if s.events != nil {
			if err := s.events.PublishReservationEvent(ctx, events.TypeReservationExpired, r); err != nil {
				s.logger.Warn("Sweeper: failed to publish event for reservation id=%d: %v", r.ID, err)
			}
		}
	}
}
