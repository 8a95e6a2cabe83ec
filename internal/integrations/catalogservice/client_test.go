package catalogservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/venues/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 1,
			"name": "Lotus Hall",
			"capacity": 250,
			"base_price": 20000,
			"service_prices": {"wedding": 50000},
			"price_slots": [{"label": "evening", "start_time": "17:00:00", "end_time": "23:00", "price": 12000}],
			"addons": [{"code": "dj", "name": "DJ", "price": 8000}]
		}`))
	})
	mux.HandleFunc("/internal/venues/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 2, "price_slots": [{"label": "bad", "start_time": "25:00", "end_time": "23:00"}]}`))
	})
	mux.HandleFunc("/internal/services/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "name": "Wedding", "category": "wedding", "price": 45000}`))
	})
	mux.HandleFunc("/internal/services/8", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetVenue(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, nopLogger{})

	venue, err := client.GetVenue(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Lotus Hall", venue.Name)
	assert.Equal(t, 250, venue.Capacity)
	assert.Equal(t, int64(50000), venue.ServicePrices["wedding"])
	require.Len(t, venue.PriceSlots, 1)
	assert.Equal(t, types.TimeString("17:00"), venue.PriceSlots[0].Start)
	assert.Equal(t, "dj", venue.Addons[0].Code)
}

func TestClient_GetVenue_Errors(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, nopLogger{})

	_, err := client.GetVenue(context.Background(), 404)
	assert.ErrorIs(t, err, ErrVenueNotFound)

	_, err = client.GetVenue(context.Background(), 2)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetService(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, nopLogger{})

	service, err := client.GetService(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "wedding", service.Category)

	_, err = client.GetService(context.Background(), 8)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = client.GetService(context.Background(), 9)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
