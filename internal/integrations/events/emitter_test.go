package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

type fakePublisher struct {
	keys   []string
	events []BookingEvent
	err    error
}

func (f *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.events = append(f.events, v.(BookingEvent))
	return nil
}

type recordingLogger struct{ warns int }

func (l *recordingLogger) Info(string, ...interface{}) {}
func (l *recordingLogger) Warn(string, ...interface{}) { l.warns++ }

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		InvoiceNumber: "INV-20261019-ABCDEF12",
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPartial,
		Pricing:       domain.PricingSnapshot{TotalAmount: 59000},
		PaidAmount:    5900,
	}
}

func TestEmitter_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	e := NewEmitter(pub, &recordingLogger{})

	e.PaymentVerified(context.Background(), testBooking(), "order_1", "pay_1")
	e.BookingStatusChanged(context.Background(), testBooking(), domain.ActorAdmin)

	require.Len(t, pub.events, 2)
	assert.Equal(t, KeyPaymentVerified, pub.keys[0])
	assert.Equal(t, "pay_1", pub.events[0].PaymentID)
	assert.Equal(t, int64(5900), pub.events[0].PaidAmount)
	assert.Equal(t, KeyBookingStatusChanged, pub.keys[1])
	assert.Equal(t, domain.ActorAdmin, pub.events[1].Actor)
}

func TestEmitter_PublishFailureIsLogged(t *testing.T) {
	log := &recordingLogger{}
	e := NewEmitter(&fakePublisher{err: errors.New("broker down")}, log)

	assert.NotPanics(t, func() { e.BookingCreated(context.Background(), testBooking()) })
	assert.Equal(t, 1, log.warns)
}

func TestEmitter_Disabled(t *testing.T) {
	e := NewEmitter(nil, &recordingLogger{})
	assert.NotPanics(t, func() { e.BookingCreated(context.Background(), testBooking()) })

	var nilEmitter *Emitter
	assert.NotPanics(t, func() { nilEmitter.BookingCreated(context.Background(), testBooking()) })
}
