package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a single court booking: one venue, one date,
// one hour-long slot. A reservation is created as pending and holds the
// slot until payment completes or the hold expires.
type Reservation struct {
	ID      int64
	UserID  int64
	VenueID int64

	// Date is the calendar day of the booking, time-of-day stripped to midnight
	Date      time.Time
	StartTime types.TimeString

	Status ReservationStatus

	// Amount is a snapshot of the venue price at creation time; later
	// price changes never affect an existing reservation
	Amount float64

	// PaymentToken is the gateway transaction handle; nil until the
	// gateway accepts the create call, immutable afterwards
	PaymentToken *string

	// PaymentRecord is an opaque serialized payload describing the
	// payment outcome; set only on terminal transition
	PaymentRecord *string

	// ExpiresAt is the deadline for remaining pending; irrelevant once
	// the reservation is terminal
	ExpiresAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLive returns true while the reservation occupies its slot
func (r *Reservation) IsLive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal returns true once no further transitions are permitted
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusConfirmed || r.Status == StatusCancelled
}

// CanBeCancelled returns true if the user may still cancel the reservation
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending
}

// IsExpired returns true for a pending reservation past its payment deadline
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.Status == StatusPending && !now.Before(r.ExpiresAt)
}

// VenueReservationsFilter фильтр для получения бронирований корта
type VenueReservationsFilter struct {
	VenueID  int64               // Обязательный параметр
	Date     *time.Time          // Фильтр по конкретной дате (опционально)
	FromDate *time.Time          // Фильтр по датам начиная с указанной (опционально)
	Statuses []ReservationStatus // Фильтр по статусам (опционально, если пусто - только live)
}
