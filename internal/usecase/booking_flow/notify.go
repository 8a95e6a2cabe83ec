package booking_flow

import (
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/service/otp"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	"github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
)

// NotificationLevel уровень уведомления для клиента
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

const (
	msgValidation           = "Please correct the highlighted fields."
	msgRateLimited          = "Please wait %d seconds before requesting a new code."
	msgRateLimitedGeneric   = "Please wait before requesting a new code."
	msgTooManyAttempts      = "Too many incorrect attempts. Please request a new code."
	msgInvalidCode          = "The code is invalid or has expired. Check it or request a new one."
	msgInvalidTarget        = "The email address or mobile number is not valid."
	msgPriceUnavailable     = "We could not calculate a price for this selection. Please try again later."
	msgInvalidSelection     = "The selected time slot or add-ons are not available for this venue."
	msgPaymentInitiation    = "Your booking is saved. Online payment could not be started, you can pay later."
	msgVerificationFailed   = "We could not verify your payment. Please contact support with your invoice number."
	msgVerificationRequired = "Please verify both your email address and mobile number to continue."
	msgRequestInFlight      = "Your previous request is still being processed."
	msgWrongStep            = "This action is not available at the current step."
	msgFlowNotFound         = "Your booking session has expired. Please start again."
	msgUnexpected           = "Something went wrong. Please try again."

	msgBookingPriceChanged       = "The price has changed since it was shown. Please review the new price."
	msgBookingDateInPast         = "The selected date is in the past."
	msgBookingVenueNotFound      = "The selected venue is no longer available."
	msgBookingServiceNotFound    = "The selected service is no longer available."
	msgBookingInvalidInput       = "The booking details were rejected. Please review them and try again."
	msgBookingCatalogUnavailable = "The venue catalog is temporarily unavailable. Please try again."
	msgBookingFailed             = "We could not create your booking. Please try again."
)

// Notification сообщение для клиента
type Notification struct {
	Level             NotificationLevel
	Message           string
	Fields            map[string]string
	RetryAfterSeconds int
	Retryable         bool
}

// Notify переводит любую ошибку сценария в уведомление для клиента
func Notify(err error) Notification {
	if err == nil {
		return Notification{Level: LevelInfo}
	}

	var verr *ValidationError
	var rateErr *otp.RateLimitError
	var bookingErr *BookingCreationError

	switch {
	case errors.As(err, &verr):
		return Notification{Level: LevelWarning, Message: msgValidation, Fields: verr.Fields, Retryable: true}
	case errors.As(err, &rateErr):
		secs := rateErr.RetrySeconds()
		return Notification{Level: LevelWarning, Message: fmt.Sprintf(msgRateLimited, secs), RetryAfterSeconds: secs, Retryable: true}
	case errors.Is(err, otp.ErrRateLimited):
		return Notification{Level: LevelWarning, Message: msgRateLimitedGeneric, Retryable: true}
	case errors.Is(err, otp.ErrTooManyAttempts):
		return Notification{Level: LevelWarning, Message: msgTooManyAttempts, Retryable: true}
	case errors.Is(err, otp.ErrInvalidCode):
		return Notification{Level: LevelWarning, Message: msgInvalidCode, Retryable: true}
	case errors.Is(err, otp.ErrInvalidTarget):
		return Notification{Level: LevelWarning, Message: msgInvalidTarget, Retryable: true}
	case errors.As(err, &bookingErr):
		return Notification{Level: LevelError, Message: bookingErr.Message, Retryable: true}
	case errors.Is(err, pricing.ErrPriceUnavailable):
		return Notification{Level: LevelWarning, Message: msgPriceUnavailable, Retryable: true}
	case errors.Is(err, pricing.ErrVenueNotFound):
		return Notification{Level: LevelError, Message: msgBookingVenueNotFound}
	case errors.Is(err, pricing.ErrServiceNotFound):
		return Notification{Level: LevelError, Message: msgBookingServiceNotFound}
	case errors.Is(err, pricing.ErrUnknownAddon), errors.Is(err, pricing.ErrInvalidSelection):
		return Notification{Level: LevelWarning, Message: msgInvalidSelection, Retryable: true}
	case errors.Is(err, pricing.ErrCatalogUnavailable):
		return Notification{Level: LevelError, Message: msgBookingCatalogUnavailable, Retryable: true}
	case errors.Is(err, ErrPaymentInitiationFailed):
		return Notification{Level: LevelWarning, Message: msgPaymentInitiation, Retryable: true}
	case errors.Is(err, ErrVerificationFailed):
		return Notification{Level: LevelError, Message: msgVerificationFailed, Retryable: false}
	case errors.Is(err, ErrVerificationRequired):
		return Notification{Level: LevelWarning, Message: msgVerificationRequired, Retryable: true}
	case errors.Is(err, ErrRequestInFlight):
		return Notification{Level: LevelInfo, Message: msgRequestInFlight, Retryable: true}
	case errors.Is(err, ErrWrongStep):
		return Notification{Level: LevelWarning, Message: msgWrongStep}
	case errors.Is(err, ErrFlowNotFound):
		return Notification{Level: LevelWarning, Message: msgFlowNotFound}
	default:
		return Notification{Level: LevelError, Message: msgUnexpected, Retryable: true}
	}
}

// bookingFailureMessage текст отказа сервера при создании бронирования
func bookingFailureMessage(err error) string {
	switch {
	case errors.Is(err, create_booking.ErrPriceChanged):
		return msgBookingPriceChanged
	case errors.Is(err, create_booking.ErrPriceUnavailable):
		return msgPriceUnavailable
	case errors.Is(err, create_booking.ErrInvalidDate):
		return msgBookingDateInPast
	case errors.Is(err, create_booking.ErrVenueNotFound):
		return msgBookingVenueNotFound
	case errors.Is(err, create_booking.ErrServiceNotFound):
		return msgBookingServiceNotFound
	case errors.Is(err, create_booking.ErrInvalidInput):
		return msgBookingInvalidInput
	case errors.Is(err, create_booking.ErrCatalogUnavailable):
		return msgBookingCatalogUnavailable
	default:
		return msgBookingFailed
	}
}
