package booking_flow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/VenueBookingService/internal/service/otp"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
)

func TestNotify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		level     NotificationLevel
		message   string
		retryable bool
	}{
		{
			name:      "validation",
			err:       &ValidationError{Fields: map[string]string{"email": "email is not valid"}},
			level:     LevelWarning,
			message:   msgValidation,
			retryable: true,
		},
		{
			name:      "rate limited",
			err:       &otp.RateLimitError{RetryAfter: 42 * time.Second},
			level:     LevelWarning,
			message:   "Please wait 42 seconds before requesting a new code.",
			retryable: true,
		},
		{
			name:      "too many attempts",
			err:       fmt.Errorf("%w: %w", otp.ErrInvalidCode, otp.ErrTooManyAttempts),
			level:     LevelWarning,
			message:   msgTooManyAttempts,
			retryable: true,
		},
		{name: "invalid code", err: otp.ErrInvalidCode, level: LevelWarning, message: msgInvalidCode, retryable: true},
		{name: "price unavailable", err: pricing.ErrPriceUnavailable, level: LevelWarning, message: msgPriceUnavailable, retryable: true},
		{
			name:      "booking creation verbatim",
			err:       &BookingCreationError{Message: "The selected date is in the past.", Err: create_booking.ErrInvalidDate},
			level:     LevelError,
			message:   "The selected date is in the past.",
			retryable: true,
		},
		{
			name:      "payment initiation",
			err:       fmt.Errorf("%w: gateway down", ErrPaymentInitiationFailed),
			level:     LevelWarning,
			message:   msgPaymentInitiation,
			retryable: true,
		},
		{
			name:    "verification failed",
			err:     fmt.Errorf("%w: bad signature", ErrVerificationFailed),
			level:   LevelError,
			message: msgVerificationFailed,
		},
		{name: "in flight", err: ErrRequestInFlight, level: LevelInfo, message: msgRequestInFlight, retryable: true},
		{name: "unknown", err: errors.New("boom"), level: LevelError, message: msgUnexpected, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Notify(tt.err)

			assert.Equal(t, tt.level, n.Level)
			assert.Equal(t, tt.message, n.Message)
			assert.Equal(t, tt.retryable, n.Retryable)
		})
	}
}

func TestNotify_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		n := Notify(nil)
		assert.Equal(t, LevelInfo, n.Level)
		assert.Empty(t, n.Message)
	})
}

func TestBookingFailureMessage(t *testing.T) {
	assert.Equal(t, msgBookingPriceChanged, bookingFailureMessage(fmt.Errorf("%w: expected 1", create_booking.ErrPriceChanged)))
	assert.Equal(t, msgBookingFailed, bookingFailureMessage(create_booking.ErrInternal))
}

func TestTransitions(t *testing.T) {
	to, ok := transition(StepCheckout, EventBooked)
	assert.True(t, ok)
	assert.Equal(t, StepConfirm, to)

	_, ok = transition(StepCustomerDetails, EventBooked)
	assert.False(t, ok)

	for _, ev := range []Event{EventNext, EventBack, EventBooked} {
		_, ok := transition(StepConfirm, ev)
		assert.False(t, ok, "confirm must be terminal for %s", ev)
	}
}
