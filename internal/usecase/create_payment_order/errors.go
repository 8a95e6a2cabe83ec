package create_payment_order

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_payment_order: booking not found")

	// ErrInvalidAmount возвращается, когда сумма <= 0 или больше остатка к оплате
	ErrInvalidAmount = errors.New("create_payment_order: invalid amount")

	// ErrBookingNotPayable возвращается для отмененных бронирований
	ErrBookingNotPayable = errors.New("create_payment_order: booking is not payable")

	// ErrGatewayUnavailable возвращается, когда шлюз не создал заказ
	ErrGatewayUnavailable = errors.New("create_payment_order: payment gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_order: internal error")
)
