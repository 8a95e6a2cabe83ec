package get_invoice

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

type InvoiceService interface {
	Invoice(ctx context.Context, bookingID int64) (*models.Invoice, error)
	InvoiceByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
