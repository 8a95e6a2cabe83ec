package bookings

import (
	"context"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatuses(ctx context.Context, id int64, update domain.StatusUpdate) (*domain.Booking, error)
}

// InvoiceRenderer формирование PDF счета
type InvoiceRenderer interface {
	Render(booking *domain.Booking, issuedAt time.Time) ([]byte, error)
}

// EventPublisher доменные события
type EventPublisher interface {
	BookingStatusChanged(ctx context.Context, booking *domain.Booking, actor domain.Actor)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
