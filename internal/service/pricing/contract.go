package pricing

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// CatalogClient интерфейс клиента каталога площадок
type CatalogClient interface {
	GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error)
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
