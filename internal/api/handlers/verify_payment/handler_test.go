package verify_payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	verifyPayment "github.com/m04kA/VenueBookingService/internal/usecase/verify_payment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *verifyPayment.Request
	resp *verifyPayment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *verifyPayment.Request) (*verifyPayment.Response, error) {
	f.got = req
	return f.resp, f.err
}

const body = `{"bookingId": 11, "orderId": "order_1", "paymentId": "pay_1", "signature": "abc"}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body)))
	return rec
}

func TestHandle_Verified(t *testing.T) {
	uc := &fakeUseCase{resp: &verifyPayment.Response{Booking: &domain.Booking{
		ID:            11,
		Pricing:       domain.PricingSnapshot{TotalAmount: 59000},
		PaidAmount:    5900,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPartial,
	}}}

	rec := post(NewHandler(uc, nopLogger{}), body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pay_1", uc.got.PaymentID)
	assert.Equal(t, "abc", uc.got.Signature)

	var resp VerifyPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "partial", resp.Booking.PaymentStatus)
	assert.Equal(t, int64(53100), resp.Booking.OutstandingAmount)
	assert.False(t, resp.Replayed)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{name: "bad body", body: `{"bookingId": "x"}`, want: http.StatusBadRequest},
		{name: "missing fields", body: body, err: verifyPayment.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "signature", body: body, err: verifyPayment.ErrVerificationFailed, want: http.StatusUnprocessableEntity},
		{name: "storage", body: body, err: verifyPayment.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.err != nil {
				err = fmt.Errorf("%w: wrapped", tt.err)
			}
			rec := post(NewHandler(&fakeUseCase{err: err}, nopLogger{}), tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
