package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// Request модели

// ScheduleWindowDTO окно расписания в запросах и ответах.
// Weekday в нотации time.Weekday: 0 - воскресенье, 6 - суббота.
type ScheduleWindowDTO struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "21:00"
}

// CreateVenueRequest запрос на создание корта
type CreateVenueRequest struct {
	AdminID     int64               `json:"adminId"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	Price       float64             `json:"price"`
	Schedule    []ScheduleWindowDTO `json:"schedule"`
}

// UpdateVenueRequest запрос на обновление корта.
// Указанные поля заменяют текущие значения, nil-поля не меняются.
// Schedule при обновлении заменяется целиком.
type UpdateVenueRequest struct {
	UserID      int64               `json:"userId"`
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	ImageURL    *string             `json:"imageUrl,omitempty"`
	Price       *float64            `json:"price,omitempty"`
	Schedule    []ScheduleWindowDTO `json:"schedule,omitempty"`
}

// Response модели

// VenueResponse ответ с данными корта
type VenueResponse struct {
	ID          int64               `json:"id"`
	AdminID     int64               `json:"adminId"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	Price       float64             `json:"price"`
	Active      bool                `json:"active"`
	Schedule    []ScheduleWindowDTO `json:"schedule"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// VenueListResponse ответ со списком кортов
type VenueListResponse struct {
	Venues []VenueResponse `json:"venues"`
}

// Методы конвертации

// ToDomainSchedule конвертирует DTO окон в domain расписание
func ToDomainSchedule(windows []ScheduleWindowDTO) (domain.WeeklySchedule, error) {
	schedule := make(domain.WeeklySchedule, 0, len(windows))

	for _, w := range windows {
		if w.Weekday < 0 || w.Weekday > 6 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, w.Weekday)
		}

		startTime, err := types.NewTimeStringFromString(w.StartTime)
		if err != nil {
			return nil, err
		}
		endTime, err := types.NewTimeStringFromString(w.EndTime)
		if err != nil {
			return nil, err
		}

		schedule = append(schedule, domain.ScheduleWindow{
			Weekday:   time.Weekday(w.Weekday),
			StartTime: startTime,
			EndTime:   endTime,
		})
	}

	return schedule, nil
}

// FromDomainSchedule конвертирует domain расписание в DTO
func FromDomainSchedule(schedule domain.WeeklySchedule) []ScheduleWindowDTO {
	windows := make([]ScheduleWindowDTO, 0, len(schedule))
	for _, w := range schedule {
		windows = append(windows, ScheduleWindowDTO{
			Weekday:   int(w.Weekday),
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
		})
	}
	return windows
}

// FromDomainVenue конвертирует domain модель в DTO
func FromDomainVenue(v *domain.Venue) *VenueResponse {
	if v == nil {
		return nil
	}

	return &VenueResponse{
		ID:          v.ID,
		AdminID:     v.AdminID,
		Name:        v.Name,
		Description: v.Description,
		ImageURL:    v.ImageURL,
		Price:       v.Price,
		Active:      v.Active,
		Schedule:    FromDomainSchedule(v.Schedule),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// FromDomainVenueList конвертирует список domain моделей в DTO
func FromDomainVenueList(venues []*domain.Venue) *VenueListResponse {
	result := &VenueListResponse{
		Venues: make([]VenueResponse, 0, len(venues)),
	}

	for _, v := range venues {
		if resp := FromDomainVenue(v); resp != nil {
			result.Venues = append(result.Venues, *resp)
		}
	}

	return result
}
