package verify_payment

import (
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
	verifyPayment "github.com/m04kA/VenueBookingService/internal/usecase/verify_payment"
)

// VerifyPaymentRequest callback виджета оплаты
type VerifyPaymentRequest struct {
	BookingID int64  `json:"bookingId"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	Booking  *models.BookingResponse `json:"booking"`
	Replayed bool                    `json:"replayed"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *VerifyPaymentRequest) ToUseCaseRequest() *verifyPayment.Request {
	return &verifyPayment.Request{
		BookingID: r.BookingID,
		OrderID:   r.OrderID,
		PaymentID: r.PaymentID,
		Signature: r.Signature,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *verifyPayment.Response) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		Booking:  models.FromDomainBooking(resp.Booking),
		Replayed: resp.Replayed,
	}
}
