package booking_flow

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VenueBookingService/internal/api/handlers"
	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/otp"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	bookingFlow "github.com/m04kA/VenueBookingService/internal/usecase/booking_flow"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
)

const msgInvalidRequestBody = "invalid request body"

// Handler HTTP обертка над сценарием бронирования.
// Любой ответ, успешный или нет, содержит текущее состояние сценария
type Handler struct {
	registry FlowRegistry
	logger   Logger
}

func NewHandler(registry FlowRegistry, logger Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// Create POST /api/v1/flows
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	flow := h.registry.Create()

	h.logger.Info("POST /flows - Flow started: flow_id=%s", flow.ID())
	handlers.RespondJSON(w, http.StatusCreated, FromSnapshot(flow.Snapshot()))
}

// Get GET /api/v1/flows/{flowId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flow(w, r, "GET /flows/{id}")
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromSnapshot(flow.Snapshot()))
}

// Delete DELETE /api/v1/flows/{flowId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	flowID := mux.Vars(r)["flowId"]
	if err := h.registry.Delete(flowID); err != nil {
		h.respondError(w, "DELETE /flows/{id}", nil, err)
		return
	}

	h.logger.Info("DELETE /flows/{id} - Flow closed: flow_id=%s", flowID)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCustomer PUT /api/v1/flows/{flowId}/customer
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /flows/{id}/customer"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	var req CustomerRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	h.respond(w, route, flow, flow.UpdateCustomer(req.ToCustomerDetails()))
}

// UpdateSchedule PUT /api/v1/flows/{flowId}/schedule
// Цена пересчитывается, как только заполнены площадка, услуга и время
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /flows/{id}/schedule"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	var req ScheduleRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	schedule, err := req.ToSchedule()
	if err != nil {
		h.respond(w, route, flow, err)
		return
	}

	_, err = flow.UpdateSchedule(r.Context(), schedule)
	h.respond(w, route, flow, err)
}

// Checkout PUT /api/v1/flows/{flowId}/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /flows/{id}/checkout"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	var req CheckoutRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	h.respond(w, route, flow, flow.ChoosePayment(domain.PaymentOption(req.PaymentOption), req.AdvancePercent))
}

// Next POST /api/v1/flows/{flowId}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	const route = "POST /flows/{id}/next"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	h.respond(w, route, flow, flow.Next(r.Context()))
}

// Back POST /api/v1/flows/{flowId}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	const route = "POST /flows/{id}/back"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	h.respond(w, route, flow, flow.Back())
}

// SendCode POST /api/v1/flows/{flowId}/otp/{channel}/send
func (h *Handler) SendCode(w http.ResponseWriter, r *http.Request) {
	const route = "POST /flows/{id}/otp/{channel}/send"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	_, err := flow.SendCode(r.Context(), domain.Channel(mux.Vars(r)["channel"]))
	h.respond(w, route, flow, err)
}

// EnterCode POST /api/v1/flows/{flowId}/otp/{channel}/code
// Шесть цифр проверяются автоматически, verify=true проверяет введенный код повторно
func (h *Handler) EnterCode(w http.ResponseWriter, r *http.Request) {
	const route = "POST /flows/{id}/otp/{channel}/code"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	var req CodeRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	ch := domain.Channel(mux.Vars(r)["channel"])

	var err error
	if req.Verify {
		_, err = flow.VerifyCode(r.Context(), ch)
	} else {
		_, err = flow.EnterCode(r.Context(), ch, req.Code)
	}
	h.respond(w, route, flow, err)
}

// PaymentFailed POST /api/v1/flows/{flowId}/payment/failed
func (h *Handler) PaymentFailed(w http.ResponseWriter, r *http.Request) {
	const route = "POST /flows/{id}/payment/failed"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	var req PaymentFailedRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	h.respond(w, route, flow, flow.PaymentFailed(req.Reason))
}

// RetryPayment POST /api/v1/flows/{flowId}/payment/retry
func (h *Handler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	const route = "POST /flows/{id}/payment/retry"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	h.respond(w, route, flow, flow.RetryPayment(r.Context()))
}

// CompletePayment POST /api/v1/flows/{flowId}/payment/complete
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	const route = "POST /flows/{id}/payment/complete"

	flow, ok := h.flow(w, r, route)
	if !ok {
		return
	}

	var req CompletePaymentRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	h.respond(w, route, flow, flow.CompletePayment(r.Context(), req.PaymentID, req.OrderID, req.Signature))
}

func (h *Handler) flow(w http.ResponseWriter, r *http.Request, route string) (*bookingFlow.Controller, bool) {
	flow, err := h.registry.Get(mux.Vars(r)["flowId"])
	if err != nil {
		h.respondError(w, route, nil, err)
		return nil, false
	}
	return flow, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string, dst interface{}) bool {
	if err := handlers.DecodeJSON(r, dst); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, route string, flow *bookingFlow.Controller, err error) {
	if err != nil {
		h.respondError(w, route, flow, err)
		return
	}

	snap := flow.Snapshot()
	h.logger.Info("%s - OK: flow_id=%s, step=%s", route, snap.ID, snap.Step)
	handlers.RespondJSON(w, http.StatusOK, FromSnapshot(snap))
}

func (h *Handler) respondError(w http.ResponseWriter, route string, flow *bookingFlow.Controller, err error) {
	status := statusFor(err)
	notification := bookingFlow.Notify(err)

	var flowResp *FlowResponse
	flowID := ""
	if flow != nil {
		snap := flow.Snapshot()
		flowResp = FromSnapshot(snap)
		flowID = snap.ID
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("%s - Failed: flow_id=%s, status=%d, error=%v", route, flowID, status, err)
	} else {
		h.logger.Warn("%s - Rejected: flow_id=%s, status=%d, error=%v", route, flowID, status, err)
	}

	if notification.RetryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(notification.RetryAfterSeconds))
	}
	handlers.RespondJSON(w, status, FromNotification(notification, flowResp))
}

// statusFor HTTP статус для ошибки сценария
func statusFor(err error) int {
	var verr *bookingFlow.ValidationError
	var bookingErr *bookingFlow.BookingCreationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, otp.ErrRateLimited), errors.Is(err, otp.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, otp.ErrInvalidCode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, otp.ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.As(err, &bookingErr):
		if errors.Is(err, create_booking.ErrPriceChanged) {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	case errors.Is(err, pricing.ErrPriceUnavailable),
		errors.Is(err, pricing.ErrInvalidSelection),
		errors.Is(err, pricing.ErrUnknownAddon):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pricing.ErrVenueNotFound), errors.Is(err, pricing.ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, bookingFlow.ErrPaymentInitiationFailed):
		return http.StatusBadGateway
	case errors.Is(err, bookingFlow.ErrVerificationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bookingFlow.ErrVerificationRequired),
		errors.Is(err, bookingFlow.ErrRequestInFlight),
		errors.Is(err, bookingFlow.ErrWrongStep):
		return http.StatusConflict
	case errors.Is(err, bookingFlow.ErrFlowNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
