package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-CourtRentalService/pkg/types"
)

// ScheduleWindow is a recurring weekly availability window of a venue:
// a weekday plus a half-open [StartTime, EndTime) interval
type ScheduleWindow struct {
	Weekday   time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Validate проверяет формат окна. Вызывается при конфигурировании корта,
// ко времени бронирования окна считаются валидными.
func (w ScheduleWindow) Validate() error {
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d", ErrInvalidScheduleWindow, w.Weekday)
	}
	if err := w.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidScheduleWindow, err)
	}
	if err := w.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidScheduleWindow, err)
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidScheduleWindow, w.StartTime, w.EndTime)
	}
	return nil
}

// WeeklySchedule is the full recurring schedule of a venue
type WeeklySchedule []ScheduleWindow

// Validate проверяет все окна расписания
func (s WeeklySchedule) Validate() error {
	for _, w := range s {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// WindowsFor returns the venue's windows for the given weekday,
// ordered by start time
func (s WeeklySchedule) WindowsFor(weekday time.Weekday) []ScheduleWindow {
	windows := make([]ScheduleWindow, 0)
	for _, w := range s {
		if w.Weekday == weekday {
			windows = append(windows, w)
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartTime.IsBefore(windows[j].StartTime)
	})
	return windows
}

// Venue represents a rentable court owned by an admin account
type Venue struct {
	ID          int64
	AdminID     int64
	Name        string
	Description string
	ImageURL    string

	// Price is the hourly rental price; reservations snapshot it at
	// creation time
	Price float64

	Active   bool
	Schedule WeeklySchedule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if users may reserve slots on this venue
func (v *Venue) IsBookable() bool {
	return v.Active
}
