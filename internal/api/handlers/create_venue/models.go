package create_venue

import "github.com/m04kA/SMC-CourtRentalService/internal/service/venues/models"

// CreateVenueRequest HTTP запрос на создание корта.
// AdminID берётся из заголовков аутентификации, не из тела.
type CreateVenueRequest struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	ImageURL    string                     `json:"imageUrl,omitempty"`
	Price       float64                    `json:"price"`
	Schedule    []models.ScheduleWindowDTO `json:"schedule"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateVenueRequest) ToServiceRequest(adminID int64) *models.CreateVenueRequest {
	return &models.CreateVenueRequest{
		AdminID:     adminID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Schedule:    r.Schedule,
	}
}
