package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// MemoryIdempotencyStore keeps claimed keys in process memory.
// Claims are not shared between instances.
type MemoryIdempotencyStore struct {
	mu       sync.Mutex
	expiries map[string]time.Time
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// NewMemoryIdempotencyStore creates a store that sweeps expired keys every sweepEvery.
// A zero sweepEvery disables the background sweep.
func NewMemoryIdempotencyStore(sweepEvery time.Duration) *MemoryIdempotencyStore {
	s := &MemoryIdempotencyStore{
		expiries: make(map[string]time.Time),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if sweepEvery > 0 {
		s.done.Add(1)
		go s.sweepLoop(sweepEvery)
	}
	return s
}

// MarkProcessed claims key for ttl; an expired claim can be taken again
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expiries[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expiries[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether key holds an unexpired claim
func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiries[key]
	return ok && s.now().Before(exp), nil
}

// Len returns the number of keys held, expired or not
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiries)
}

// Close stops the sweeper
func (s *MemoryIdempotencyStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.done.Wait()
	return nil
}

func (s *MemoryIdempotencyStore) sweepLoop(every time.Duration) {
	defer s.done.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.expiries {
		if !now.Before(exp) {
			delete(s.expiries, k)
		}
	}
}

var _ shared.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
