package update_venue

import "github.com/m04kA/SMC-CourtRentalService/internal/service/venues/models"

// UpdateVenueRequest HTTP запрос на частичное обновление корта.
// Nil-поля не меняются, Schedule заменяется целиком.
type UpdateVenueRequest struct {
	Name        *string                    `json:"name,omitempty"`
	Description *string                    `json:"description,omitempty"`
	ImageURL    *string                    `json:"imageUrl,omitempty"`
	Price       *float64                   `json:"price,omitempty"`
	Schedule    []models.ScheduleWindowDTO `json:"schedule,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateVenueRequest) ToServiceRequest(userID int64) *models.UpdateVenueRequest {
	return &models.UpdateVenueRequest{
		UserID:      userID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Schedule:    r.Schedule,
	}
}
