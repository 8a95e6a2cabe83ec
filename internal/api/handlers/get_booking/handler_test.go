package get_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/VenueBookingService/internal/service/bookings"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	resp *models.BookingResponse
	err  error
}

func (f *fakeService) GetByID(_ context.Context, id int64) (*models.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	resp.ID = id
	return &resp, nil
}

func serve(svc BookingService, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}", NewHandler(svc, nopLogger{}).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/"+id, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{resp: &models.BookingResponse{InvoiceNumber: "INV-1", Status: "pending"}}

	rec := serve(svc, "15")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":15`)
	assert.Contains(t, rec.Body.String(), `"invoiceNumber":"INV-1"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		err  error
		want int
	}{
		{name: "not a number", id: "abc", want: http.StatusBadRequest},
		{name: "zero", id: "0", want: http.StatusBadRequest},
		{name: "not found", id: "7", err: bookings.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "internal", id: "7", err: fmt.Errorf("%w: db down", bookings.ErrInternal), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
