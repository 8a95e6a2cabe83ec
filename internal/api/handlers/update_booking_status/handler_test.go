package update_booking_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/api/middleware"
	"github.com/m04kA/VenueBookingService/internal/service/bookings"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID  int64
	gotReq *models.UpdateStatusRequest
	err    error
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	f.gotID, f.gotReq = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{
		ID:            id,
		Status:        ptr.Value(req.Status),
		PaymentStatus: ptr.Value(req.PaymentStatus),
	}, nil
}

func serve(svc BookingService, id, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/bookings/{bookingId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/bookings/"+id, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "99")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_AdminMarksPaid(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "11", `{"status": "confirmed", "paymentStatus": "paid"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(11), svc.gotID)
	assert.Equal(t, int64(99), svc.gotReq.UserID)
	assert.Equal(t, "paid", *svc.gotReq.PaymentStatus)
	assert.Contains(t, rec.Body.String(), `"paymentStatus":"paid"`)
}

func TestHandle_OnlyStatus(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "11", `{"status": "cancelled"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotReq.PaymentStatus)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
		err  error
		want int
	}{
		{name: "bad id", id: "x", body: `{}`, want: http.StatusBadRequest},
		{name: "bad body", id: "1", body: `{"state": "paid"}`, want: http.StatusBadRequest},
		{name: "not found", id: "1", body: `{"status": "confirmed"}`, err: bookings.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "bad status", id: "1", body: `{"status": "done"}`, err: fmt.Errorf("%w: done", bookings.ErrInvalidStatus), want: http.StatusBadRequest},
		{name: "empty", id: "1", body: `{}`, err: fmt.Errorf("%w: empty", bookings.ErrInvalidInput), want: http.StatusBadRequest},
		{name: "internal", id: "1", body: `{"status": "confirmed"}`, err: bookings.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
