package verify_payment

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ApplyPayment(ctx context.Context, id int64, amount int64) (*domain.Booking, error)
}

// PaymentOrderRepository интерфейс репозитория заказов
type PaymentOrderRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentOrder, error)
	MarkPaid(ctx context.Context, orderID, paymentID string) error
}

// SignatureVerifier проверка подписи callback'а шлюза
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher доменные события
type EventPublisher interface {
	PaymentVerified(ctx context.Context, booking *domain.Booking, orderID, paymentID string)
}

// Metrics бизнес-метрики
type Metrics interface {
	PaymentVerified(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
