package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a process-local Store. Counters are not shared across
// server instances; use the Redis store for multi-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
	quit    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a MemoryStore and starts a background sweep that
// evicts expired entries every sweepEvery. Call Stop when done.
func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
		quit:    make(chan struct{}),
	}
	if sweepEvery > 0 {
		go s.sweep(sweepEvery)
	}
	return s
}

func (s *MemoryStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			for key, entry := range s.entries {
				if now.After(entry.resetAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.quit:
			return
		}
	}
}

// Stop terminates the eviction sweep.
func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.quit) })
}

func (s *MemoryStore) Check(ctx context.Context, key string, max int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.resetAt) {
		entry = &memoryEntry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = entry
	} else {
		entry.count++
	}

	return Result{
		Allowed:   entry.count <= max,
		Remaining: remaining(max, entry.count),
		ResetAt:   entry.resetAt,
		Limit:     max,
	}, nil
}

func (s *MemoryStore) Peek(ctx context.Context, key string, max int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.resetAt) {
		return Result{Allowed: true, Remaining: max, ResetAt: now, Limit: max}, nil
	}

	return Result{
		Allowed:   entry.count <= max,
		Remaining: remaining(max, entry.count),
		ResetAt:   entry.resetAt,
		Limit:     max,
	}, nil
}

func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*memoryEntry)
	return nil
}
