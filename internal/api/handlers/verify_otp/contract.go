package verify_otp

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

type OTPService interface {
	Verify(ctx context.Context, channel domain.Channel, target, code string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
