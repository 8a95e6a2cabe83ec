package verify_payment

import "errors"

var (
	// ErrInvalidInput возвращается, когда не переданы id заказа, платежа или подпись
	ErrInvalidInput = errors.New("verify_payment: invalid input data")

	// ErrVerificationFailed возвращается при неверной подписи или чужом заказе.
	// Платеж не зачисляется
	ErrVerificationFailed = errors.New("verify_payment: verification failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_payment: internal error")
)
