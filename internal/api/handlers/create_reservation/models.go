package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	createReservation "github.com/m04kA/SMC-CourtRentalService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	VenueID   int64  `json:"venueId"`
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
}

// ReservationResponse HTTP response model.
// RedirectURL - полный адрес формы оплаты, клиент перенаправляет
// пользователя на него сразу после создания брони.
type ReservationResponse struct {
	ReservationID int64   `json:"reservationId"`
	VenueID       int64   `json:"venueId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	ExpiresAt     string  `json:"expiresAt"`
	RedirectURL   string  `json:"redirectUrl"`
	CreatedAt     string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:    userID,
		VenueID:   r.VenueID,
		Date:      date,
		StartTime: startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationID: resp.ID,
		VenueID:       resp.VenueID,
		Date:          resp.Date.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		Status:        resp.Status,
		Amount:        resp.Amount,
		ExpiresAt:     resp.ExpiresAt.Format(time.RFC3339),
		RedirectURL:   resp.PaymentURL,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
