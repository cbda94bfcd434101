package venues

import "errors"

var (
	// ErrVenueNotFound возвращается, когда корт не найден
	ErrVenueNotFound = errors.New("venue not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrHasActiveReservations возвращается при попытке деактивировать
	// корт с будущими подтвержденными бронями
	ErrHasActiveReservations = errors.New("venue has confirmed future reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
