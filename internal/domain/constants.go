package domain

import (
	"errors"
	"time"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Slot granularity is fixed at one hour: a schedule window is cut into
// hourly slots, a window spanning a partial final hour truncates it
const SlotDurationMinutes = 60

// Default configuration values
const (
	DefaultHoldMinutes          = 10 // время удержания слота pending бронированием
	DefaultSweepIntervalSeconds = 60
)

// Business validation constants
const (
	MinVenueNameLength        = 3
	MinVenueDescriptionLength = 10
	BuyOrderMaxLength         = 26 // ограничение Webpay на длину buyOrder
)

var (
	// ErrInvalidScheduleWindow возвращается при некорректном окне расписания
	ErrInvalidScheduleWindow = errors.New("domain: invalid schedule window")
)

// LiveStatuses статусы бронирований, занимающих слот.
// Используется при фильтрации занятых слотов и в частичном уникальном
// индексе на уровне БД.
var LiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []ReservationStatus{
	StatusConfirmed,
	StatusCancelled,
}

// NormalizeDate обнуляет время у даты бронирования (полночь локального времени)
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
