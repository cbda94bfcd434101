package get_available_slots

import (
	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CourtRentalService/internal/usecase/get_available_slots"
)

// SlotResponse часовой слот в HTTP ответе
type SlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
	Available bool   `json:"available"`
}

// SlotsResponse HTTP ответ со слотами корта на день
type SlotsResponse struct {
	VenueID int64          `json:"venueId"`
	Date    string         `json:"date"` // "2025-10-15"
	Slots   []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Available: s.Available,
		})
	}

	return &SlotsResponse{
		VenueID: resp.VenueID,
		Date:    resp.Date.Format(domain.DateFormat),
		Slots:   slots,
	}
}
