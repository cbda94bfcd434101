package webpay

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("webpay client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от Webpay
	ErrInvalidResponse = errors.New("webpay client: invalid response")

	// ErrTransactionRejected возвращается, когда Webpay отклоняет операцию
	// на уровне API (4xx)
	ErrTransactionRejected = errors.New("webpay client: transaction rejected")
)
