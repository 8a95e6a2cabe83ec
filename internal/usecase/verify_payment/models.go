package verify_payment

import "github.com/m04kA/VenueBookingService/internal/domain"

// Request данные callback'а виджета оплаты
type Request struct {
	BookingID int64
	OrderID   string
	PaymentID string
	Signature string
}

// Response бронирование после зачисления платежа
type Response struct {
	Booking  *domain.Booking
	Replayed bool // платеж уже был зачислен ранее, повторно не начисляли
}

const (
	resultSuccess   = "success"
	resultFailed    = "failed"
	resultDuplicate = "duplicate"
)
