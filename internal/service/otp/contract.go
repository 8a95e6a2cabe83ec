package otp

import (
	"context"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Store хранилище кодов (internal/infra/storage/otp)
type Store interface {
	AcquireCooldown(ctx context.Context, channel domain.Channel, target string, ttl time.Duration) (bool, time.Duration, error)
	ReleaseCooldown(ctx context.Context, channel domain.Channel, target string) error
	SaveChallenge(ctx context.Context, challenge *domain.OTPChallenge, ttl time.Duration) error
	GetChallenge(ctx context.Context, channel domain.Channel, target string) (*domain.OTPChallenge, error)
	IncrementAttempts(ctx context.Context, channel domain.Channel, target string, ttl time.Duration) (int, error)
	ConsumeChallenge(ctx context.Context, channel domain.Channel, target string) (bool, error)
}

// Dispatcher доставка кода по внешнему каналу (email/SMS)
type Dispatcher interface {
	Dispatch(ctx context.Context, channel domain.Channel, target, code string) error
}

// Metrics бизнес-метрики OTP
type Metrics interface {
	OTPSent(channel, result string)
	OTPVerified(channel, result string)
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

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
