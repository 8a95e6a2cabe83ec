package booking_flow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL время жизни сценария без активности
const DefaultSessionTTL = 30 * time.Minute

type entry struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry хранит сценарии в памяти процесса.
// Сценарий, закрытый или истекший до создания бронирования, не оставляет следов
type Registry struct {
	cfg  Config
	deps Dependencies
	ttl  time.Duration
	now  func() time.Time

	mu    sync.Mutex
	flows map[string]*entry
}

// NewRegistry создает реестр сценариев
func NewRegistry(cfg Config, deps Dependencies, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		cfg:   cfg,
		deps:  deps,
		ttl:   ttl,
		now:   time.Now,
		flows: make(map[string]*entry),
	}
}

// Create начинает новый сценарий
func (r *Registry) Create() *Controller {
	id := uuid.NewString()
	ctrl := NewController(id, r.cfg, r.deps)

	r.mu.Lock()
	r.flows[id] = &entry{controller: ctrl, lastSeen: r.now()}
	r.mu.Unlock()

	r.deps.Logger.Info("BookingFlow %s: started", id)
	return ctrl
}

// Get возвращает сценарий и продлевает его жизнь
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.flows[id]
	if !ok {
		return nil, ErrFlowNotFound
	}

	now := r.now()
	if now.Sub(e.lastSeen) > r.ttl {
		delete(r.flows, id)
		return nil, ErrFlowNotFound
	}

	e.lastSeen = now
	return e.controller, nil
}

// Delete закрывает сценарий
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flows[id]; !ok {
		return ErrFlowNotFound
	}
	delete(r.flows, id)
	r.deps.Logger.Info("BookingFlow %s: closed", id)
	return nil
}

// Len количество активных сценариев
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Evict удаляет истекшие сценарии, возвращает их количество
func (r *Registry) Evict() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, e := range r.flows {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.flows, id)
			evicted++
		}
	}
	return evicted
}

// StartEviction периодически чистит реестр до закрытия stopCh
func (r *Registry) StartEviction(interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if n := r.Evict(); n > 0 {
					r.deps.Logger.Info("BookingFlow registry: evicted %d expired flows", n)
				}
			}
		}
	}()
}
