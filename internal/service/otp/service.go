package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/VenueBookingService/internal/domain"
	otpStorage "github.com/m04kA/VenueBookingService/internal/infra/storage/otp"
	"github.com/m04kA/VenueBookingService/internal/integrations/notification"
)

// Metric results
const (
	resultOK          = "ok"
	resultRateLimited = "rate_limited"
	resultUndelivered = "undelivered"
	resultInvalid     = "invalid"
)

var codeSpace = big.NewInt(1_000_000)

// Service выдает и проверяет одноразовые коды для email и телефона независимо
type Service struct {
	cfg          Config
	store        Store
	dispatcher   Dispatcher
	metrics      Metrics
	validate     *validator.Validate
	timeProvider TimeProvider
	generateCode func() (string, error)
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(cfg Config, store Store, dispatcher Dispatcher, metrics Metrics, logger Logger) *Service {
	return &Service{
		cfg:          cfg,
		store:        store,
		dispatcher:   dispatcher,
		metrics:      metrics,
		validate:     validator.New(),
		timeProvider: &RealTimeProvider{},
		generateCode: generateCode,
		logger:       logger,
	}
}

// Send выпускает новый код, инвалидируя предыдущий для той же пары (канал, адрес)
func (s *Service) Send(ctx context.Context, channel domain.Channel, rawTarget string) (*SendResult, error) {
	// 1. Нормализация и валидация адреса
	target, err := s.NormalizeTarget(channel, rawTarget)
	if err != nil {
		return nil, err
	}
	masked := notification.MaskTarget(channel, target)

	// 2. Кулдаун
	acquired, retryAfter, err := s.store.AcquireCooldown(ctx, channel, target, s.cfg.Cooldown)
	if err != nil {
		s.logger.Error("OTP Send: cooldown check failed for %s %s: %v", channel, masked, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !acquired {
		s.logger.Warn("OTP Send: %s %s rate limited, retry after %s", channel, masked, retryAfter)
		s.metrics.OTPSent(string(channel), resultRateLimited)
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	// 3. Генерация и сохранение кода
	code, err := s.generateCode()
	if err != nil {
		s.releaseCooldown(ctx, channel, target, masked)
		return nil, fmt.Errorf("%w: generate code: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	challenge := &domain.OTPChallenge{
		Channel:   channel,
		Target:    target,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if err := s.store.SaveChallenge(ctx, challenge, s.cfg.TTL); err != nil {
		s.logger.Error("OTP Send: failed to save challenge for %s %s: %v", channel, masked, err)
		s.releaseCooldown(ctx, channel, target, masked)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	result := &SendResult{
		Channel:         channel,
		Target:          target,
		Delivered:       true,
		CooldownSeconds: int(s.cfg.Cooldown.Seconds()),
		ExpiresAt:       challenge.ExpiresAt,
	}

	// 4. Доставка. Ошибка не фатальна: код можно ввести вручную в dev-режиме
	if err := s.dispatcher.Dispatch(ctx, channel, target, code); err != nil {
		s.logger.Warn("OTP Send: dispatch to %s %s failed: %v", channel, masked, err)
		s.metrics.OTPSent(string(channel), resultUndelivered)
		result.Delivered = false
		if s.cfg.DevMode {
			result.DevCode = code
		}
		return result, nil
	}

	s.metrics.OTPSent(string(channel), resultOK)
	s.logger.Info("OTP Send: code sent to %s %s", channel, masked)
	return result, nil
}

// releaseCooldown кулдаун считается только для выпущенного кода
func (s *Service) releaseCooldown(ctx context.Context, channel domain.Channel, target, masked string) {
	if err := s.store.ReleaseCooldown(ctx, channel, target); err != nil {
		s.logger.Error("OTP Send: failed to release cooldown for %s %s: %v", channel, masked, err)
	}
}

// Verify проверяет код. Успешная проверка удаляет код, повторно его использовать нельзя
func (s *Service) Verify(ctx context.Context, channel domain.Channel, rawTarget, code string) error {
	target, err := s.NormalizeTarget(channel, rawTarget)
	if err != nil {
		return err
	}
	masked := notification.MaskTarget(channel, target)

	if !isCode(code) {
		s.metrics.OTPVerified(string(channel), resultInvalid)
		return fmt.Errorf("%w: code must be %d digits", ErrInvalidCode, domain.OTPCodeLength)
	}

	challenge, err := s.store.GetChallenge(ctx, channel, target)
	if err != nil {
		if errors.Is(err, otpStorage.ErrChallengeNotFound) {
			s.metrics.OTPVerified(string(channel), resultInvalid)
			return fmt.Errorf("%w: no active code", ErrInvalidCode)
		}
		s.logger.Error("OTP Verify: failed to load challenge for %s %s: %v", channel, masked, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if challenge.IsExpired(s.timeProvider.Now()) {
		_, _ = s.store.ConsumeChallenge(ctx, channel, target)
		s.metrics.OTPVerified(string(channel), resultInvalid)
		return fmt.Errorf("%w: code expired", ErrInvalidCode)
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		return s.registerFailure(ctx, channel, target, masked)
	}

	consumed, err := s.store.ConsumeChallenge(ctx, channel, target)
	if err != nil {
		s.logger.Error("OTP Verify: failed to consume challenge for %s %s: %v", channel, masked, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !consumed {
		// параллельный запрос уже использовал этот код
		s.metrics.OTPVerified(string(channel), resultInvalid)
		return fmt.Errorf("%w: code already used", ErrInvalidCode)
	}

	s.metrics.OTPVerified(string(channel), resultOK)
	s.logger.Info("OTP Verify: %s %s verified", channel, masked)
	return nil
}

func (s *Service) registerFailure(ctx context.Context, channel domain.Channel, target, masked string) error {
	s.metrics.OTPVerified(string(channel), resultInvalid)

	attempts, err := s.store.IncrementAttempts(ctx, channel, target, s.cfg.TTL)
	if err != nil {
		s.logger.Error("OTP Verify: failed to count attempt for %s %s: %v", channel, masked, err)
		return fmt.Errorf("%w: code mismatch", ErrInvalidCode)
	}

	if attempts >= s.cfg.MaxAttempts {
		_, _ = s.store.ConsumeChallenge(ctx, channel, target)
		s.logger.Warn("OTP Verify: %s %s exceeded %d attempts, code invalidated", channel, masked, s.cfg.MaxAttempts)
		return fmt.Errorf("%w: %w", ErrInvalidCode, ErrTooManyAttempts)
	}

	s.logger.Warn("OTP Verify: wrong code for %s %s (attempt %d/%d)", channel, masked, attempts, s.cfg.MaxAttempts)
	return fmt.Errorf("%w: code mismatch", ErrInvalidCode)
}

// NormalizeTarget приводит адрес к каноничному виду: email в нижнем регистре, телефон из 10 цифр
func (s *Service) NormalizeTarget(channel domain.Channel, raw string) (string, error) {
	switch channel {
	case domain.ChannelEmail:
		email := domain.NormalizeEmail(raw)
		if err := s.validate.Var(email, "required,email"); err != nil {
			return "", fmt.Errorf("%w: invalid email", ErrInvalidTarget)
		}
		return email, nil
	case domain.ChannelMobile:
		mobile := domain.NormalizeMobile(raw)
		if len(mobile) != domain.MobileDigits {
			return "", fmt.Errorf("%w: mobile must have %d digits", ErrInvalidTarget, domain.MobileDigits)
		}
		return mobile, nil
	default:
		return "", fmt.Errorf("%w: unknown channel %q", ErrInvalidTarget, channel)
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func isCode(code string) bool {
	if len(code) != domain.OTPCodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
