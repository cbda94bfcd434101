package create_reservation

import "errors"

var (
	// ErrVenueNotFound возвращается, когда корт не найден или неактивен
	ErrVenueNotFound = errors.New("create_reservation: venue not found")

	// ErrSlotTaken возвращается, когда слот уже занят live-бронированием
	ErrSlotTaken = errors.New("create_reservation: slot is already taken")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_reservation: invalid date")

	// ErrInvalidTimeFormat возвращается при некорректном формате времени слота
	ErrInvalidTimeFormat = errors.New("create_reservation: invalid time format")

	// ErrPaymentInit возвращается, когда платежный шлюз не принял транзакцию;
	// pending-бронь при этом удалена и слот освобожден
	ErrPaymentInit = errors.New("create_reservation: payment initialization failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
