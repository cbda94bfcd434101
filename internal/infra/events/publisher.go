package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
)

// Типы событий жизненного цикла брони
const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationConfirmed = "reservation.confirmed"
	TypeReservationCancelled = "reservation.cancelled"
	TypeReservationExpired   = "reservation.expired"
)

// ReservationEvent событие изменения состояния брони, публикуемое в Kafka
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	UserID        int64     `json:"user_id"`
	VenueID       int64     `json:"venue_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher отправляет события броней в Kafka.
// Публикация best-effort: ошибки логируются вызывающей стороной и не
// влияют на результат операции.
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

// NewPublisher создает продюсер для топика событий броней
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{
		writer: writer,
		topic:  topic,
	}
}

// PublishReservationEvent публикует событие изменения брони.
// Ключ сообщения - ID брони, чтобы события одной брони попадали в одну
// партицию и сохраняли порядок.
func (p *Publisher) PublishReservationEvent(ctx context.Context, eventType string, r *domain.Reservation) error {
	event := ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		UserID:        r.UserID,
		VenueID:       r.VenueID,
		Date:          r.Date.Format(domain.DateFormat),
		StartTime:     r.StartTime.String(),
		Status:        string(r.Status),
		Amount:        r.Amount,
		OccurredAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal reservation event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(strconv.FormatInt(r.ID, 10)),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}
	return nil
}

// Close закрывает продюсер
func (p *Publisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
