package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	VenueID int64     // ID корта
	Date    time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со списком слотов на день
type Response struct {
	VenueID int64     // ID корта
	Date    time.Time // Дата, на которую запрашивались слоты
	Slots   []Slot    // Часовые слоты, нарезанные из окон расписания
}

// Slot часовой слот расписания корта
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	EndTime   types.TimeString // Время конца слота
	Available bool             // Свободен ли слот для бронирования
}
