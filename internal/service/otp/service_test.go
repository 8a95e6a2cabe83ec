package otp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	otpStorage "github.com/m04kA/VenueBookingService/internal/infra/storage/otp"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeDispatcher struct {
	codes map[string]string
	err   error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, channel domain.Channel, target, code string) error {
	if d.err != nil {
		return d.err
	}
	d.codes[string(channel)+":"+target] = code
	return nil
}

type nopMetrics struct{}

func (nopMetrics) OTPSent(string, string)     {}
func (nopMetrics) OTPVerified(string, string) {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	svc        *Service
	clock      *fakeClock
	dispatcher *fakeDispatcher
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)}
	dispatcher := &fakeDispatcher{codes: map[string]string{}}
	store := otpStorage.NewMemoryStoreWithClock(clock.Now)

	svc := NewService(cfg, store, dispatcher, nopMetrics{}, nopLogger{})
	svc.timeProvider = clock

	counter := 100000
	svc.generateCode = func() (string, error) {
		counter++
		return fmt.Sprintf("%06d", counter), nil
	}

	return &fixture{svc: svc, clock: clock, dispatcher: dispatcher}
}

func TestSend_CooldownRateLimits(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	res, err := f.svc.Send(ctx, domain.ChannelEmail, " Guest@Example.com ")
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Equal(t, "guest@example.com", res.Target)
	assert.Equal(t, 60, res.CooldownSeconds)

	f.clock.now = f.clock.now.Add(20 * time.Second)
	_, err = f.svc.Send(ctx, domain.ChannelEmail, "guest@example.com")
	require.ErrorIs(t, err, ErrRateLimited)

	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 40, rl.RetrySeconds())

	// мобильный канал не зависит от email
	_, err = f.svc.Send(ctx, domain.ChannelMobile, "98765 43210")
	assert.NoError(t, err)
}

// flakyStore отказывает в сохранении кода, пока saveErr не сброшен
type flakyStore struct {
	*otpStorage.MemoryStore
	saveErr error
}

func (s *flakyStore) SaveChallenge(ctx context.Context, challenge *domain.OTPChallenge, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.SaveChallenge(ctx, challenge, ttl)
}

func TestSend_StoreFailureDoesNotHoldCooldown(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	store := &flakyStore{
		MemoryStore: otpStorage.NewMemoryStoreWithClock(f.clock.Now),
		saveErr:     errors.New("redis down"),
	}
	f.svc.store = store
	ctx := context.Background()

	_, err := f.svc.Send(ctx, domain.ChannelEmail, "guest@example.com")
	require.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.dispatcher.codes)

	f.clock.now = f.clock.now.Add(time.Second)
	store.saveErr = nil

	res, err := f.svc.Send(ctx, domain.ChannelEmail, "guest@example.com")
	require.NoError(t, err)
	assert.True(t, res.Delivered)

	// после выпущенного кода кулдаун действует как обычно
	_, err = f.svc.Send(ctx, domain.ChannelEmail, "guest@example.com")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSend_GenerateFailureDoesNotHoldCooldown(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	next := f.svc.generateCode
	f.svc.generateCode = func() (string, error) { return "", errors.New("entropy unavailable") }

	_, err := f.svc.Send(ctx, domain.ChannelMobile, "9876543210")
	require.ErrorIs(t, err, ErrInternal)

	f.svc.generateCode = next
	_, err = f.svc.Send(ctx, domain.ChannelMobile, "9876543210")
	assert.NoError(t, err)
}

func TestSend_NewCodeInvalidatesPrevious(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.Send(ctx, domain.ChannelMobile, "9876543210")
	require.NoError(t, err)
	first := f.dispatcher.codes["mobile:9876543210"]

	f.clock.now = f.clock.now.Add(61 * time.Second)
	_, err = f.svc.Send(ctx, domain.ChannelMobile, "9876543210")
	require.NoError(t, err)
	second := f.dispatcher.codes["mobile:9876543210"]
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, f.svc.Verify(ctx, domain.ChannelMobile, "9876543210", first), ErrInvalidCode)
	assert.NoError(t, f.svc.Verify(ctx, domain.ChannelMobile, "9876543210", second))
}

func TestVerify_CodeIsSingleUse(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.Send(ctx, domain.ChannelEmail, "guest@example.com")
	require.NoError(t, err)
	code := f.dispatcher.codes["email:guest@example.com"]

	require.NoError(t, f.svc.Verify(ctx, domain.ChannelEmail, "GUEST@example.com", code))
	assert.ErrorIs(t, f.svc.Verify(ctx, domain.ChannelEmail, "guest@example.com", code), ErrInvalidCode)
}

func TestVerify_Expired(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.Send(ctx, domain.ChannelEmail, "guest@example.com")
	require.NoError(t, err)
	code := f.dispatcher.codes["email:guest@example.com"]

	f.clock.now = f.clock.now.Add(5*time.Minute + time.Second)
	assert.ErrorIs(t, f.svc.Verify(ctx, domain.ChannelEmail, "guest@example.com", code), ErrInvalidCode)
}

func TestVerify_TooManyAttemptsBurnsCode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 3
	f := newFixture(t, cfg)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, domain.ChannelMobile, "9876543210")
	require.NoError(t, err)
	code := f.dispatcher.codes["mobile:9876543210"]

	for i := 0; i < 2; i++ {
		err := f.svc.Verify(ctx, domain.ChannelMobile, "9876543210", "000000")
		require.ErrorIs(t, err, ErrInvalidCode)
		require.NotErrorIs(t, err, ErrTooManyAttempts)
	}

	err = f.svc.Verify(ctx, domain.ChannelMobile, "9876543210", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	assert.ErrorIs(t, f.svc.Verify(ctx, domain.ChannelMobile, "9876543210", code), ErrInvalidCode)
}

func TestVerify_MalformedCode(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	assert.ErrorIs(t, f.svc.Verify(context.Background(), domain.ChannelMobile, "9876543210", "12a456"), ErrInvalidCode)
	assert.ErrorIs(t, f.svc.Verify(context.Background(), domain.ChannelMobile, "9876543210", "12345"), ErrInvalidCode)
}

func TestSend_DispatchFailureDegrades(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DevMode = true
	f := newFixture(t, cfg)
	f.dispatcher.err = errors.New("smtp down")
	ctx := context.Background()

	res, err := f.svc.Send(ctx, domain.ChannelEmail, "guest@example.com")
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	require.NotEmpty(t, res.DevCode)

	assert.NoError(t, f.svc.Verify(ctx, domain.ChannelEmail, "guest@example.com", res.DevCode))
}

func TestSend_DispatchFailureHidesCodeOutsideDevMode(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.dispatcher.err = errors.New("sms gateway down")

	res, err := f.svc.Send(context.Background(), domain.ChannelMobile, "9876543210")
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Empty(t, res.DevCode)
}

func TestSend_InvalidTarget(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	_, err := f.svc.Send(context.Background(), domain.ChannelEmail, "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = f.svc.Send(context.Background(), domain.ChannelMobile, "12345")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.True(t, isCode(code), code)
	}
}
