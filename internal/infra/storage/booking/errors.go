package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateKey возвращается при повторе idempotency key или номера счета
	ErrDuplicateKey = errors.New("booking.repository: duplicate key")

	// ErrInvalidAmount возвращается при попытке зачесть неположительную сумму
	ErrInvalidAmount = errors.New("booking.repository: invalid payment amount")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
