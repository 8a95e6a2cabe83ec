package booking_flow

import (
	"context"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/otp"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_payment_order"
	"github.com/m04kA/VenueBookingService/internal/usecase/verify_payment"
)

// Quoter серверный расчет цены
type Quoter interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (*pricing.Quote, error)
}

// OTPService выпуск и проверка одноразовых кодов
type OTPService interface {
	Send(ctx context.Context, channel domain.Channel, target string) (*otp.SendResult, error)
	Verify(ctx context.Context, channel domain.Channel, target, code string) error
}

// BookingCreator создание бронирования
type BookingCreator interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// OrderCreator создание заказа в платежном шлюзе
type OrderCreator interface {
	Execute(ctx context.Context, req *create_payment_order.Request) (*create_payment_order.Response, error)
}

// PaymentVerifier верификация callback'а виджета оплаты
type PaymentVerifier interface {
	Execute(ctx context.Context, req *verify_payment.Request) (*verify_payment.Response, error)
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
