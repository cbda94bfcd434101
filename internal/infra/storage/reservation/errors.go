package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotTaken возвращается, когда слот уже занят live-бронированием.
	// Сигнализируется нарушением частичного уникального индекса - вторая из
	// двух конкурентных вставок получает именно эту ошибку.
	ErrSlotTaken = errors.New("reservation.repository: slot already taken")

	// ErrNotPending возвращается, когда условное обновление не прошло,
	// потому что бронирование уже в терминальном статусе
	ErrNotPending = errors.New("reservation.repository: reservation is not pending")

	// ErrTokenAlreadyAttached возвращается при повторной попытке записать
	// платежный токен
	ErrTokenAlreadyAttached = errors.New("reservation.repository: payment token already attached")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
