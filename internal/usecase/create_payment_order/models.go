package create_payment_order

// Request запрос на создание заказа.
// Amount == nil означает аванс по advancePercent бронирования (или весь остаток, если аванс 0)
type Request struct {
	BookingID int64
	Amount    *int64
}

// Response данные для запуска виджета оплаты
type Response struct {
	OrderID     string
	BookingID   int64
	Amount      int64
	AmountMinor int64
	Currency    string
	KeyID       string
}
