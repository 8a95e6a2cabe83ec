package otp

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited возвращается при повторной отправке внутри кулдауна
	ErrRateLimited = errors.New("otp: resend is rate limited")

	// ErrInvalidCode возвращается, если кода нет, он истек, не совпал или уже использован
	ErrInvalidCode = errors.New("otp: invalid or expired code")

	// ErrTooManyAttempts возвращается вместе с ErrInvalidCode, когда код сгорел после серии ошибок
	ErrTooManyAttempts = errors.New("otp: too many failed attempts")

	// ErrInvalidTarget возвращается при некорректном email или номере телефона
	ErrInvalidTarget = errors.New("otp: invalid target")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("otp: internal error")
)

// RateLimitError несет оставшееся время кулдауна
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry after %ds", ErrRateLimited, e.RetrySeconds())
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// RetrySeconds оставшееся время, округленное вверх до секунды
func (e *RateLimitError) RetrySeconds() int {
	secs := int(e.RetryAfter / time.Second)
	if e.RetryAfter%time.Second != 0 {
		secs++
	}
	return secs
}
