package otp

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Config настройки сервиса
type Config struct {
	Cooldown    time.Duration
	TTL         time.Duration
	MaxAttempts int
	// DevMode возвращает код в ответе, если доставка не удалась
	DevMode bool
}

// DefaultConfig значения по умолчанию: кулдаун 60 секунд, код живет 5 минут
func DefaultConfig() Config {
	return Config{
		Cooldown:    domain.DefaultOTPCooldownSecs * time.Second,
		TTL:         domain.DefaultOTPTTLSecs * time.Second,
		MaxAttempts: domain.DefaultOTPMaxAttempts,
	}
}

// SendResult результат отправки кода
type SendResult struct {
	Channel         domain.Channel
	Target          string
	Delivered       bool
	CooldownSeconds int
	ExpiresAt       time.Time
	DevCode         string // только в DevMode при неудачной доставке
}
