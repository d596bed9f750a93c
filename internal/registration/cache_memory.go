package registration

import (
	"context"
	"sync"
	"time"
)

// InMemoryCacheStore is an in-memory CacheStore, used by tests.
type InMemoryCacheStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	// FailOps makes every Get and Set fail; used to exercise the degraded
	// mode where the cache is unreachable.
	FailOps error
}

func NewInMemoryCacheStore() *InMemoryCacheStore {
	return &InMemoryCacheStore{entries: map[string][]byte{}}
}

func (s *InMemoryCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps != nil {
		return nil, s.FailOps
	}
	raw, ok := s.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return raw, nil
}

func (s *InMemoryCacheStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps != nil {
		return s.FailOps
	}
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

// Len reports the number of cached envelopes.
func (s *InMemoryCacheStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
