package booking_flow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/otp"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	bookingFlow "github.com/m04kA/VenueBookingService/internal/usecase/booking_flow"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_payment_order"
	"github.com/m04kA/VenueBookingService/internal/usecase/verify_payment"
)

const validCode = "123456"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeQuoter struct {
	total int64
}

func (f *fakeQuoter) Quote(_ context.Context, req pricing.QuoteRequest) (*pricing.Quote, error) {
	tax := f.total * 18 / 118
	return &pricing.Quote{
		Breakdown: pricing.Breakdown{BasePrice: f.total - tax, Subtotal: f.total - tax, Tax: tax, Total: f.total},
		VenueID:   req.VenueID,
		VenueName: "Lotus Hall",
		Category:  "Wedding",
		Capacity:  200,
	}, nil
}

type fakeOTP struct{}

func (fakeOTP) Send(_ context.Context, ch domain.Channel, target string) (*otp.SendResult, error) {
	return &otp.SendResult{
		Channel:         ch,
		Target:          target,
		Delivered:       true,
		CooldownSeconds: 60,
		ExpiresAt:       time.Now().Add(5 * time.Minute),
	}, nil
}

func (fakeOTP) Verify(_ context.Context, _ domain.Channel, _, code string) error {
	if code != validCode {
		return fmt.Errorf("%w: code mismatch", otp.ErrInvalidCode)
	}
	return nil
}

type fakeBookings struct {
	calls int
}

func (f *fakeBookings) Execute(_ context.Context, req *create_booking.Request) (*create_booking.Response, error) {
	f.calls++
	return &create_booking.Response{
		Booking: &domain.Booking{
			ID:             11,
			InvoiceNumber:  "INV-20261019-0A1B2C3D",
			VenueID:        req.VenueID,
			Date:           req.Date,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			Pricing:        domain.PricingSnapshot{TotalAmount: *req.ExpectedTotal},
			AdvancePercent: req.AdvancePercent,
			Status:         domain.StatusPending,
			PaymentStatus:  domain.PaymentPending,
		},
	}, nil
}

type fakeOrders struct{}

func (fakeOrders) Execute(_ context.Context, req *create_payment_order.Request) (*create_payment_order.Response, error) {
	return &create_payment_order.Response{
		OrderID:     "order_1",
		BookingID:   req.BookingID,
		Amount:      5900,
		AmountMinor: 590000,
		Currency:    "INR",
		KeyID:       "rzp_test",
	}, nil
}

type fakePayments struct{}

func (fakePayments) Execute(_ context.Context, req *verify_payment.Request) (*verify_payment.Response, error) {
	if req.Signature != "good" {
		return nil, fmt.Errorf("%w: signature mismatch", verify_payment.ErrVerificationFailed)
	}
	return &verify_payment.Response{Booking: &domain.Booking{
		ID:            req.BookingID,
		Pricing:       domain.PricingSnapshot{TotalAmount: 59000},
		PaidAmount:    5900,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPartial,
	}}, nil
}

type harness struct {
	router   *mux.Router
	bookings *fakeBookings
}

func newHarness() *harness {
	bookings := &fakeBookings{}
	registry := bookingFlow.NewRegistry(bookingFlow.Config{DefaultAdvancePercent: 10}, bookingFlow.Dependencies{
		Quoter:   &fakeQuoter{total: 59000},
		OTP:      fakeOTP{},
		Bookings: bookings,
		Orders:   fakeOrders{},
		Payments: fakePayments{},
		Logger:   nopLogger{},
	}, time.Hour)

	h := NewHandler(registry, nopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/flows", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/flows/{flowId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/flows/{flowId}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/flows/{flowId}/customer", h.UpdateCustomer).Methods(http.MethodPut)
	r.HandleFunc("/flows/{flowId}/schedule", h.UpdateSchedule).Methods(http.MethodPut)
	r.HandleFunc("/flows/{flowId}/checkout", h.Checkout).Methods(http.MethodPut)
	r.HandleFunc("/flows/{flowId}/next", h.Next).Methods(http.MethodPost)
	r.HandleFunc("/flows/{flowId}/back", h.Back).Methods(http.MethodPost)
	r.HandleFunc("/flows/{flowId}/otp/{channel}/send", h.SendCode).Methods(http.MethodPost)
	r.HandleFunc("/flows/{flowId}/otp/{channel}/code", h.EnterCode).Methods(http.MethodPost)
	r.HandleFunc("/flows/{flowId}/payment/failed", h.PaymentFailed).Methods(http.MethodPost)
	r.HandleFunc("/flows/{flowId}/payment/retry", h.RetryPayment).Methods(http.MethodPost)
	r.HandleFunc("/flows/{flowId}/payment/complete", h.CompletePayment).Methods(http.MethodPost)

	return &harness{router: r, bookings: bookings}
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeFlow(t *testing.T, rec *httptest.ResponseRecorder) FlowResponse {
	t.Helper()
	var resp FlowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (h *harness) start(t *testing.T) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/flows", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	flow := decodeFlow(t, rec)
	require.Equal(t, "customer_details", flow.Step)
	return flow.ID
}

func scheduleBody() string {
	date := time.Now().AddDate(0, 0, 14).Format(domain.DateFormat)
	return fmt.Sprintf(`{"venueId": 3, "eventType": "Wedding", "date": %q, "startTime": "10:00", "endTime": "14:00"}`, date)
}

func (h *harness) toCheckout(t *testing.T, id string) {
	t.Helper()
	base := "/flows/" + id

	rec := h.do(t, http.MethodPut, base+"/customer",
		`{"name": "Asha Rao", "email": "Asha@Example.com", "mobile": "98765 43210", "guestCount": 120}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, base+"/next", "").Code)

	rec = h.do(t, http.MethodPut, base+"/schedule", scheduleBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	flow := decodeFlow(t, rec)
	require.NotNil(t, flow.Quote)
	assert.Equal(t, int64(59000), flow.Quote.TotalAmount)

	rec = h.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "checkout", decodeFlow(t, rec).Step)
}

func TestFlow_WithPaymentEndToEnd(t *testing.T) {
	h := newHarness()
	id := h.start(t)
	base := "/flows/" + id
	h.toCheckout(t, id)

	rec := h.do(t, http.MethodPut, base+"/checkout", `{"paymentOption": "with_payment"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5900), decodeFlow(t, rec).AdvanceAmount)

	rec = h.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "verification", decodeFlow(t, rec).Step)

	// Без подтверждения каналов дальше не пускает
	rec = h.do(t, http.MethodPost, base+"/next", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "verification", decodeError(t, rec).Flow.Step)

	for _, ch := range []string{"email", "mobile"} {
		rec = h.do(t, http.MethodPost, base+"/otp/"+ch+"/send", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = h.do(t, http.MethodPost, base+"/otp/"+ch+"/code", `{"code": "999999"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = h.do(t, http.MethodPost, base+"/otp/"+ch+"/code", `{"code": "123456"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	flow := decodeFlow(t, rec)
	for _, ch := range flow.Verification {
		assert.True(t, ch.Verified, ch.Channel)
	}

	rec = h.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	flow = decodeFlow(t, rec)
	assert.Equal(t, "confirm", flow.Step)
	assert.False(t, flow.CanGoBack)
	require.NotNil(t, flow.Booking)
	require.NotNil(t, flow.Payment)
	assert.Equal(t, "awaiting", flow.Payment.Status)
	assert.Equal(t, int64(590000), flow.Payment.AmountMinor)

	rec = h.do(t, http.MethodPost, base+"/payment/complete", `{"orderId": "order_1", "paymentId": "pay_1", "signature": "bad"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errResp := decodeError(t, rec)
	assert.False(t, errResp.Retryable)
	assert.Equal(t, "verification_failed", errResp.Flow.Payment.Status)

	rec = h.do(t, http.MethodPost, base+"/payment/complete", `{"orderId": "order_1", "paymentId": "pay_1", "signature": "good"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	flow = decodeFlow(t, rec)
	assert.Equal(t, "paid", flow.Payment.Status)
	assert.Equal(t, "partial", flow.Booking.PaymentStatus)

	assert.Equal(t, 1, h.bookings.calls)
}

func TestFlow_WithoutPaymentBooksAtCheckout(t *testing.T) {
	h := newHarness()
	id := h.start(t)
	h.toCheckout(t, id)

	rec := h.do(t, http.MethodPut, "/flows/"+id+"/checkout", `{"paymentOption": "without_payment"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/flows/"+id+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	flow := decodeFlow(t, rec)
	assert.Equal(t, "confirm", flow.Step)
	require.NotNil(t, flow.Booking)
	assert.Equal(t, "INV-20261019-0A1B2C3D", flow.Booking.InvoiceNumber)
	assert.Nil(t, flow.Payment)
}

func TestFlow_ValidationErrorCarriesFieldsAndState(t *testing.T) {
	h := newHarness()
	id := h.start(t)

	rec := h.do(t, http.MethodPut, "/flows/"+id+"/customer", `{"name": "", "email": "not-an-email", "mobile": "12345", "guestCount": 10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/flows/"+id+"/next", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, "warning", resp.Level)
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "mobile")
	require.NotNil(t, resp.Flow)
	assert.Equal(t, "customer_details", resp.Flow.Step)
}

func TestFlow_ScheduleParseErrors(t *testing.T) {
	h := newHarness()
	id := h.start(t)
	h.do(t, http.MethodPut, "/flows/"+id+"/customer", `{"name": "Asha", "email": "a@b.co", "mobile": "9876543210", "guestCount": 10}`)
	h.do(t, http.MethodPost, "/flows/"+id+"/next", "")

	rec := h.do(t, http.MethodPut, "/flows/"+id+"/schedule", `{"venueId": 3, "date": "15.10.2026", "startTime": "25:00"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Contains(t, resp.Fields, "date")
	assert.Contains(t, resp.Fields, "startTime")
}

func TestFlow_BackAndWrongStep(t *testing.T) {
	h := newHarness()
	id := h.start(t)

	rec := h.do(t, http.MethodPost, "/flows/"+id+"/back", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodPost, "/flows/"+id+"/otp/email/send", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	h.toCheckout(t, id)
	rec = h.do(t, http.MethodPost, "/flows/"+id+"/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "service_datetime", decodeFlow(t, rec).Step)
}

func TestFlow_NotFoundAndDelete(t *testing.T) {
	h := newHarness()

	rec := h.do(t, http.MethodGet, "/flows/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, decodeError(t, rec).Flow)

	id := h.start(t)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/flows/"+id, "").Code)
	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodDelete, "/flows/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/flows/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodDelete, "/flows/"+id, "").Code)
}

func TestFlow_InvalidBody(t *testing.T) {
	h := newHarness()
	id := h.start(t)

	rec := h.do(t, http.MethodPut, "/flows/"+id+"/customer", `{"fullName": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInvalidRequestBody)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: &bookingFlow.ValidationError{Fields: map[string]string{"name": "required"}}, want: http.StatusBadRequest},
		{err: &otp.RateLimitError{RetryAfter: time.Second}, want: http.StatusTooManyRequests},
		{err: fmt.Errorf("%w: %w", otp.ErrInvalidCode, otp.ErrTooManyAttempts), want: http.StatusTooManyRequests},
		{err: otp.ErrInvalidCode, want: http.StatusUnprocessableEntity},
		{err: &bookingFlow.BookingCreationError{Message: "m", Err: create_booking.ErrPriceChanged}, want: http.StatusConflict},
		{err: &bookingFlow.BookingCreationError{Message: "m", Err: create_booking.ErrInternal}, want: http.StatusUnprocessableEntity},
		{err: pricing.ErrPriceUnavailable, want: http.StatusUnprocessableEntity},
		{err: pricing.ErrVenueNotFound, want: http.StatusNotFound},
		{err: pricing.ErrCatalogUnavailable, want: http.StatusServiceUnavailable},
		{err: bookingFlow.ErrPaymentInitiationFailed, want: http.StatusBadGateway},
		{err: bookingFlow.ErrVerificationFailed, want: http.StatusUnprocessableEntity},
		{err: bookingFlow.ErrRequestInFlight, want: http.StatusConflict},
		{err: bookingFlow.ErrFlowNotFound, want: http.StatusNotFound},
		{err: assert.AnError, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
