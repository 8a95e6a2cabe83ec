package otp

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// sweepInterval как часто AcquireCooldown чистит истекшие записи
const sweepInterval = time.Minute

type memoryKey struct {
	channel domain.Channel
	target  string
}

type memoryChallenge struct {
	challenge domain.OTPChallenge
	expiresAt time.Time
}

// MemoryStore хранилище в памяти процесса. Используется, когда Redis выключен, и в тестах
type MemoryStore struct {
	mu         sync.Mutex
	now        func() time.Time
	lastSweep  time.Time
	cooldowns  map[memoryKey]time.Time
	challenges map[memoryKey]memoryChallenge
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock позволяет подменить время в тестах
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		now:        now,
		lastSweep:  now(),
		cooldowns:  make(map[memoryKey]time.Time),
		challenges: make(map[memoryKey]memoryChallenge),
	}
}

func (s *MemoryStore) AcquireCooldown(_ context.Context, channel domain.Channel, target string, ttl time.Duration) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{channel, target}
	now := s.now()
	s.sweep(now)

	if until, ok := s.cooldowns[key]; ok && now.Before(until) {
		return false, until.Sub(now), nil
	}

	s.cooldowns[key] = now.Add(ttl)
	return true, 0, nil
}

func (s *MemoryStore) ReleaseCooldown(_ context.Context, channel domain.Channel, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cooldowns, memoryKey{channel, target})
	return nil
}

func (s *MemoryStore) SaveChallenge(_ context.Context, challenge *domain.OTPChallenge, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *challenge
	stored.Attempts = 0
	s.challenges[memoryKey{challenge.Channel, challenge.Target}] = memoryChallenge{
		challenge: stored,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) GetChallenge(_ context.Context, channel domain.Channel, target string) (*domain.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(memoryKey{channel, target})
	if !ok {
		return nil, ErrChallengeNotFound
	}

	challenge := entry.challenge
	return &challenge, nil
}

func (s *MemoryStore) IncrementAttempts(_ context.Context, channel domain.Channel, target string, _ time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{channel, target}
	entry, ok := s.live(key)
	if !ok {
		return 0, ErrChallengeNotFound
	}

	entry.challenge.Attempts++
	s.challenges[key] = entry
	return entry.challenge.Attempts, nil
}

func (s *MemoryStore) ConsumeChallenge(_ context.Context, channel domain.Channel, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{channel, target}
	_, ok := s.live(key)
	delete(s.challenges, key)
	return ok, nil
}

// live возвращает запись, если она не истекла. Истекшие записи удаляются. Вызывать под mu
func (s *MemoryStore) live(key memoryKey) (memoryChallenge, bool) {
	entry, ok := s.challenges[key]
	if !ok {
		return memoryChallenge{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.challenges, key)
		return memoryChallenge{}, false
	}
	return entry, true
}

// sweep удаляет истекшие кулдауны и коды не чаще раза в sweepInterval. Вызывать под mu
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now

	for key, until := range s.cooldowns {
		if !now.Before(until) {
			delete(s.cooldowns, key)
		}
	}
	for key, entry := range s.challenges {
		if !now.Before(entry.expiresAt) {
			delete(s.challenges, key)
		}
	}
}

