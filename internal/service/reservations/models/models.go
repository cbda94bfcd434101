package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// GetUserReservationsRequest запрос на получение броней пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetVenueReservationsRequest запрос на получение броней корта.
// Доступен только администратору корта.
type GetVenueReservationsRequest struct {
	UserID   int64      `json:"userId"`
	VenueID  int64      `json:"venueId"`
	Date     *time.Time `json:"date,omitempty"`     // Фильтр по дате (опционально)
	Statuses []string   `json:"statuses,omitempty"` // Фильтр по статусам (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetVenueReservationsRequest) ToDomainFilter() (domain.VenueReservationsFilter, error) {
	filter := domain.VenueReservationsFilter{
		VenueID: r.VenueID,
		Date:    r.Date,
	}

	for _, s := range r.Statuses {
		status, err := ToDomainReservationStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными брони
type ReservationResponse struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	VenueID   int64   `json:"venueId"`
	Date      string  `json:"date"`      // "2025-10-15"
	StartTime string  `json:"startTime"` // "10:00"
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`

	// ExpiresAt крайний срок оплаты, заполняется только для pending
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком броней
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		VenueID:   r.VenueID,
		Date:      r.Date.Format(domain.DateFormat),
		StartTime: r.StartTime.String(),
		Status:    string(r.Status),
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if r.Status == domain.StatusPending {
		expiresAt := r.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	result := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if resp := FromDomainReservation(r); resp != nil {
			result.Reservations = append(result.Reservations, *resp)
		}
	}

	return result
}

// ToDomainReservationStatus конвертирует строку в domain статус
func ToDomainReservationStatus(s string) (domain.ReservationStatus, error) {
	switch domain.ReservationStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled:
		return domain.ReservationStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
