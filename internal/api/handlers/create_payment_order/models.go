package create_payment_order

import (
	createOrder "github.com/m04kA/VenueBookingService/internal/usecase/create_payment_order"
)

// CreateOrderRequest HTTP request model.
// Без amount берется аванс по бронированию
type CreateOrderRequest struct {
	BookingID int64  `json:"bookingId"`
	Amount    *int64 `json:"amount,omitempty"` // целые рупии
}

// OrderResponse данные для запуска виджета оплаты
type OrderResponse struct {
	OrderID     string `json:"orderId"`
	BookingID   int64  `json:"bookingId"`
	Amount      int64  `json:"amount"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
	KeyID       string `json:"keyId"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateOrderRequest) ToUseCaseRequest() *createOrder.Request {
	return &createOrder.Request{
		BookingID: r.BookingID,
		Amount:    r.Amount,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createOrder.Response) *OrderResponse {
	return &OrderResponse{
		OrderID:     resp.OrderID,
		BookingID:   resp.BookingID,
		Amount:      resp.Amount,
		AmountMinor: resp.AmountMinor,
		Currency:    resp.Currency,
		KeyID:       resp.KeyID,
	}
}
