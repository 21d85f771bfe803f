package testutil

import (
	"context"
	"io"
	"sort"
	"sync"
)

// MemoryBlobStore is an in-memory storage.BlobStore. PutErr, when set, is
// consulted before every write.
type MemoryBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	PutErr  func(key string) error
}

// NewMemoryBlobStore creates an empty store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Put(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	if s.PutErr != nil {
		if err := s.PutErr(key); err != nil {
			return "", err
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return s.URL(key), nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryBlobStore) URL(key string) string {
	return "/uploads/" + key
}

// Keys lists stored keys in sorted order.
func (s *MemoryBlobStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the bytes stored under key.
func (s *MemoryBlobStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
