package get_available_slots

import "errors"

var (
	// ErrVenueNotFound возвращается, когда корт не найден или неактивен
	ErrVenueNotFound = errors.New("venue not found")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
