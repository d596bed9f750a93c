package storage

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStore is an in-memory ObjectStore used by tests.
type InMemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailPut makes every Put fail; used to exercise upload-failure paths.
	FailPut bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{objects: map[string][]byte{}}
}

func (s *InMemoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut {
		return fmt.Errorf("%w: simulated failure", ErrUpload)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = cp
	return nil
}

func (s *InMemoryStore) PublicURL(key string) string {
	return "https://storage.test/" + key
}

// Get returns a stored blob; test helper.
func (s *InMemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	return b, ok
}

// Len reports how many blobs were stored; test helper.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
