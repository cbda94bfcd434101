package confirm_payment

import "errors"

var (
	// ErrInvalidToken возвращается при пустом или отсутствующем token_ws
	ErrInvalidToken = errors.New("confirm_payment: invalid token")

	// ErrUnknownToken возвращается, когда токен не привязан ни к одной брони
	ErrUnknownToken = errors.New("confirm_payment: unknown payment token")

	// ErrCommitFailed возвращается, когда шлюз не смог подтвердить
	// транзакцию; бронь остается pending до истечения срока оплаты
	ErrCommitFailed = errors.New("confirm_payment: gateway commit failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
