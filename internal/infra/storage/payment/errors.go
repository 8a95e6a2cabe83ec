package payment

import "errors"

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("payment.repository: order not found")

	// ErrAlreadyPaid возвращается, когда заказ уже отмечен оплаченным
	ErrAlreadyPaid = errors.New("payment.repository: order already paid")

	// ErrDuplicateKey возвращается при повторе order_id или payment_id
	ErrDuplicateKey = errors.New("payment.repository: duplicate key")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
