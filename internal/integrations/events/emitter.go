package events

import (
	"context"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Routing keys доменных событий
const (
	KeyBookingCreated       = "booking.created"
	KeyBookingStatusChanged = "booking.status_changed"
	KeyPaymentVerified      = "payment.verified"
)

// Publisher интерфейс публикации в брокер (pkg/mq)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// BookingEvent полезная нагрузка событий по бронированию
type BookingEvent struct {
	BookingID     int64                `json:"booking_id"`
	InvoiceNumber string               `json:"invoice_number"`
	VenueID       int64                `json:"venue_id"`
	Status        domain.BookingStatus `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	TotalAmount   int64                `json:"total_amount"`
	PaidAmount    int64                `json:"paid_amount"`
	Actor         domain.Actor         `json:"actor,omitempty"`
	OrderID       string               `json:"order_id,omitempty"`
	PaymentID     string               `json:"payment_id,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// Emitter публикует доменные события. Публикация best-effort:
// ошибка брокера логируется и не влияет на результат операции
type Emitter struct {
	publisher Publisher
	logger    Logger
}

// NewEmitter создает emitter. publisher == nil означает, что брокер выключен
func NewEmitter(publisher Publisher, logger Logger) *Emitter {
	return &Emitter{publisher: publisher, logger: logger}
}

func (e *Emitter) BookingCreated(ctx context.Context, b *domain.Booking) {
	e.emit(ctx, KeyBookingCreated, newBookingEvent(b))
}

func (e *Emitter) BookingStatusChanged(ctx context.Context, b *domain.Booking, actor domain.Actor) {
	event := newBookingEvent(b)
	event.Actor = actor
	e.emit(ctx, KeyBookingStatusChanged, event)
}

func (e *Emitter) PaymentVerified(ctx context.Context, b *domain.Booking, orderID, paymentID string) {
	event := newBookingEvent(b)
	event.Actor = domain.ActorGateway
	event.OrderID = orderID
	event.PaymentID = paymentID
	e.emit(ctx, KeyPaymentVerified, event)
}

func (e *Emitter) emit(ctx context.Context, key string, event BookingEvent) {
	if e == nil || e.publisher == nil {
		return
	}
	if err := e.publisher.PublishJSON(ctx, key, event); err != nil {
		e.logger.Warn("Failed to publish %s for booking id=%d: %v", key, event.BookingID, err)
		return
	}
	e.logger.Info("Published %s for booking id=%d", key, event.BookingID)
}

func newBookingEvent(b *domain.Booking) BookingEvent {
	return BookingEvent{
		BookingID:     b.ID,
		InvoiceNumber: b.InvoiceNumber,
		VenueID:       b.VenueID,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalAmount:   b.Pricing.TotalAmount,
		PaidAmount:    b.PaidAmount,
		OccurredAt:    time.Now().UTC(),
	}
}
