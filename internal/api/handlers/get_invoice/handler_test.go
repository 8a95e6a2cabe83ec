package get_invoice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/service/bookings"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var pdf = []byte("%PDF-1.3 fake")

type fakeService struct {
	gotID     int64
	gotNumber string
	err       error
}

func (f *fakeService) Invoice(_ context.Context, id int64) (*models.Invoice, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Invoice{FileName: "INV-20261019-0A1B2C3D.pdf", Content: pdf}, nil
}

func (f *fakeService) InvoiceByNumber(_ context.Context, number string) (*models.Invoice, error) {
	f.gotNumber = number
	if f.err != nil {
		return nil, f.err
	}
	return &models.Invoice{FileName: number + ".pdf", Content: pdf}, nil
}

func newRouter(svc InvoiceService) *mux.Router {
	h := NewHandler(svc, nopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/invoice", h.Handle).Methods(http.MethodGet)
	r.HandleFunc("/invoices/{invoiceNumber}", h.HandleByNumber).Methods(http.MethodGet)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle_PDF(t *testing.T) {
	svc := &fakeService{}

	rec := get(newRouter(svc), "/bookings/11/invoice")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(11), svc.gotID)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="INV-20261019-0A1B2C3D.pdf"`)
	assert.Equal(t, pdf, rec.Body.Bytes())
}

func TestHandleByNumber(t *testing.T) {
	svc := &fakeService{}

	rec := get(newRouter(svc), "/invoices/INV-20261019-0A1B2C3D")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "INV-20261019-0A1B2C3D", svc.gotNumber)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{name: "bad id", path: "/bookings/abc/invoice", want: http.StatusBadRequest},
		{name: "unknown booking", path: "/bookings/5/invoice", err: bookings.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "unknown number", path: "/invoices/INV-X", err: bookings.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "no invoice number", path: "/bookings/5/invoice", err: bookings.ErrInvoiceUnavailable, want: http.StatusUnprocessableEntity},
		{name: "internal", path: "/invoices/INV-X", err: bookings.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newRouter(&fakeService{err: tt.err}), tt.path)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
