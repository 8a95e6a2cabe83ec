package verify_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	verifyPayment "github.com/m04kA/VenueBookingService/internal/usecase/verify_payment"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidInput       = "bookingId, orderId, paymentId and signature are required"
	msgVerificationFailed = "payment verification failed, please contact support"
)

type Handler struct {
	useCase VerifyPaymentUseCase
	logger  Logger
}

func NewHandler(useCase VerifyPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/verify
// Повторный вызов с тем же paymentId возвращает бронирование без повторного зачисления
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, verifyPayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/verify - Invalid input: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, verifyPayment.ErrVerificationFailed):
			h.logger.Warn("POST /payments/verify - Verification failed: booking_id=%d, order_id=%s, error=%v",
				req.BookingID, req.OrderID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgVerificationFailed)

		default:
			h.logger.Error("POST /payments/verify - Failed to verify payment: booking_id=%d, order_id=%s, error=%v",
				req.BookingID, req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/verify - Payment verified: booking_id=%d, order_id=%s, replayed=%t",
		req.BookingID, req.OrderID, result.Replayed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
