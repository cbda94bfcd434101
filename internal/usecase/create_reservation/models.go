package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64            // ID пользователя
	VenueID   int64            // ID корта
	Date      time.Time        // Дата бронирования (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с созданной бронью и ссылкой на форму оплаты
type Response struct {
	ID        int64            // ID созданной брони
	UserID    int64            // ID пользователя
	VenueID   int64            // ID корта
	Date      time.Time        // Дата бронирования
	StartTime types.TimeString // Время начала слота
	Status    string           // Статус брони (pending)

	// Amount снимок цены корта на момент создания
	Amount float64

	// ExpiresAt крайний срок оплаты pending-брони
	ExpiresAt time.Time

	// PaymentToken токен транзакции Webpay
	PaymentToken string

	// PaymentURL полный URL формы оплаты с токеном
	PaymentURL string

	CreatedAt time.Time
}
