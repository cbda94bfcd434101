package get_available_slots

import (
	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

// enumerateSlots нарезает окна расписания на часовые слоты.
// Окно [10:00, 13:00) дает слоты 10:00, 11:00, 12:00. Если окно
// заканчивается на неполном часе (например, 13:30), последний неполный
// час отбрасывается. Выход слота за полночь тоже обрезает окно.
func enumerateSlots(windows []domain.ScheduleWindow) []Slot {
	slots := make([]Slot, 0)

	for _, w := range windows {
		current := w.StartTime

		for current.IsBefore(w.EndTime) {
			slotEnd, err := current.AddMinutes(domain.SlotDurationMinutes)
			if err != nil {
				// Слот упирается в полночь, дальше нарезать нечего
				break
			}
			if slotEnd.IsAfter(w.EndTime) {
				break
			}

			slots = append(slots, Slot{
				StartTime: current,
				EndTime:   slotEnd,
				Available: true,
			})

			current = slotEnd
		}
	}

	return slots
}

// markOccupied помечает занятыми слоты, на которые есть live-бронирования
func markOccupied(slots []Slot, reservations []*domain.Reservation) []Slot {
	occupied := make(map[types.TimeString]bool, len(reservations))
	for _, r := range reservations {
		if r.IsLive() {
			occupied[r.StartTime] = true
		}
	}

	for i := range slots {
		if occupied[slots[i].StartTime] {
			slots[i].Available = false
		}
	}

	return slots
}
