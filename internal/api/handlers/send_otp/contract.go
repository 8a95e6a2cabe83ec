package send_otp

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/otp"
)

type OTPService interface {
	Send(ctx context.Context, channel domain.Channel, target string) (*otp.SendResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
