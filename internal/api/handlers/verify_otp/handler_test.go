package verify_otp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/otp"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeOTP struct {
	code string
	err  error
}

func (f *fakeOTP) Verify(_ context.Context, _ domain.Channel, _, code string) error {
	f.code = code
	return f.err
}

func serve(h *Handler, channel, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/otp/{channel}/verify", h.Handle).Methods(http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/otp/"+channel+"/verify", strings.NewReader(body)))
	return rec
}

func TestHandle_Verified(t *testing.T) {
	svc := &fakeOTP{}

	rec := serve(NewHandler(svc, nopLogger{}), "email", `{"target": "a@b.co", "code": "123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123456", svc.code)
	assert.JSONEq(t, `{"channel": "email", "verified": true}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		err     error
		want    int
	}{
		{name: "unknown channel", channel: "sms", want: http.StatusBadRequest},
		{name: "invalid code", channel: "email", err: otp.ErrInvalidCode, want: http.StatusUnprocessableEntity},
		{name: "too many attempts", channel: "email", err: otp.ErrTooManyAttempts, want: http.StatusTooManyRequests},
		{name: "invalid target", channel: "mobile", err: otp.ErrInvalidTarget, want: http.StatusBadRequest},
		{name: "store down", channel: "mobile", err: otp.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeOTP{err: tt.err}, nopLogger{}), tt.channel, `{"target": "a@b.co", "code": "000000"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
