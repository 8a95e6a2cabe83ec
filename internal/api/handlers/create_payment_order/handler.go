package create_payment_order

import (
	"errors"
	"net/http"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	createOrder "github.com/m04kA/VenueBookingService/internal/usecase/create_payment_order"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidBookingID   = "bookingId must be positive"
	msgBookingNotFound    = "booking not found"
	msgInvalidAmount      = "amount must be positive and not exceed the outstanding balance"
	msgNotPayable         = "booking cannot be paid"
	msgGatewayUnavailable = "payment could not be initiated, please try again"
)

type Handler struct {
	useCase CreatePaymentOrderUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/orders - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.BookingID <= 0 {
		h.logger.Warn("POST /payments/orders - Invalid booking ID: %d", req.BookingID)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createOrder.ErrBookingNotFound):
			h.logger.Warn("POST /payments/orders - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, createOrder.ErrInvalidAmount):
			h.logger.Warn("POST /payments/orders - Invalid amount: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, createOrder.ErrBookingNotPayable):
			h.logger.Warn("POST /payments/orders - Booking not payable: booking_id=%d", req.BookingID)
			handlers.RespondConflict(w, msgNotPayable)

		case errors.Is(err, createOrder.ErrGatewayUnavailable):
			h.logger.Error("POST /payments/orders - Gateway unavailable: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayUnavailable)

		default:
			h.logger.Error("POST /payments/orders - Failed to create order: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/orders - Order created: booking_id=%d, order_id=%s, amount=%d",
		req.BookingID, result.OrderID, result.Amount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
