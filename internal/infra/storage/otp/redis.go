package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// RedisStore хранит коды и кулдауны в Redis.
// Ключи: {prefix}:otp:{cooldown|challenge|attempts}:{channel}:{target}
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore создает хранилище поверх готового клиента
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(kind string, channel domain.Channel, target string) string {
	return fmt.Sprintf("%s:otp:%s:%s:%s", s.prefix, kind, channel, target)
}

// AcquireCooldown занимает кулдаун через SETNX. Если кулдаун уже активен,
// возвращает false и оставшееся время
func (s *RedisStore) AcquireCooldown(ctx context.Context, channel domain.Channel, target string, ttl time.Duration) (bool, time.Duration, error) {
	key := s.key("cooldown", channel, target)

	ok, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: AcquireCooldown - setnx: %v", ErrStore, err)
	}
	if ok {
		return true, 0, nil
	}

	left, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: AcquireCooldown - pttl: %v", ErrStore, err)
	}
	if left < 0 {
		left = ttl
	}
	return false, left, nil
}

// ReleaseCooldown снимает кулдаун, если код так и не был выпущен
func (s *RedisStore) ReleaseCooldown(ctx context.Context, channel domain.Channel, target string) error {
	if err := s.client.Del(ctx, s.key("cooldown", channel, target)).Err(); err != nil {
		return fmt.Errorf("%w: ReleaseCooldown - del: %v", ErrStore, err)
	}
	return nil
}

// SaveChallenge перезаписывает активный код и сбрасывает счетчик попыток
func (s *RedisStore) SaveChallenge(ctx context.Context, challenge *domain.OTPChallenge, ttl time.Duration) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("%w: SaveChallenge - marshal: %v", ErrStore, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key("challenge", challenge.Channel, challenge.Target), payload, ttl)
	pipe.Del(ctx, s.key("attempts", challenge.Channel, challenge.Target))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: SaveChallenge - exec: %v", ErrStore, err)
	}

	return nil
}

// GetChallenge возвращает активный код с текущим числом неудачных попыток
func (s *RedisStore) GetChallenge(ctx context.Context, channel domain.Channel, target string) (*domain.OTPChallenge, error) {
	payload, err := s.client.Get(ctx, s.key("challenge", channel, target)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetChallenge - get: %v", ErrStore, err)
	}

	var challenge domain.OTPChallenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return nil, fmt.Errorf("%w: GetChallenge - unmarshal: %v", ErrStore, err)
	}

	attempts, err := s.client.Get(ctx, s.key("attempts", channel, target)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: GetChallenge - get attempts: %v", ErrStore, err)
	}
	challenge.Attempts = attempts

	return &challenge, nil
}

// IncrementAttempts атомарно увеличивает число неудачных попыток
func (s *RedisStore) IncrementAttempts(ctx context.Context, channel domain.Channel, target string, ttl time.Duration) (int, error) {
	key := s.key("attempts", channel, target)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: IncrementAttempts - exec: %v", ErrStore, err)
	}

	return int(incr.Val()), nil
}

// ConsumeChallenge удаляет код. Возвращает false, если код уже был удален
// (второе использование того же кода)
func (s *RedisStore) ConsumeChallenge(ctx context.Context, channel domain.Channel, target string) (bool, error) {
	deleted, err := s.client.Del(ctx, s.key("challenge", channel, target)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: ConsumeChallenge - del: %v", ErrStore, err)
	}

	if err := s.client.Del(ctx, s.key("attempts", channel, target)).Err(); err != nil {
		return false, fmt.Errorf("%w: ConsumeChallenge - del attempts: %v", ErrStore, err)
	}

	return deleted == 1, nil
}
