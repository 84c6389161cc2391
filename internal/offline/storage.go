package offline

import (
	"context"
	"sync"
)

// Storage is a set of named partitions of request/response pairs.
// Match and MatchAny return (nil, nil) when nothing matches.
type Storage interface {
	Open(ctx context.Context, partition string) error
	Put(ctx context.Context, partition, key string, resp *CachedResponse) error
	Match(ctx context.Context, partition, key string) (*CachedResponse, error)
	// MatchAny searches every partition in creation order
	MatchAny(ctx context.Context, key string) (*CachedResponse, error)
	Partitions(ctx context.Context) ([]string, error)
	DeletePartition(ctx context.Context, partition string) (bool, error)
}

// MemoryStorage keeps partitions in process memory
type MemoryStorage struct {
	mu         sync.RWMutex
	order      []string
	partitions map[string]map[string]*CachedResponse
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{partitions: make(map[string]map[string]*CachedResponse)}
}

func (s *MemoryStorage) Open(_ context.Context, partition string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openLocked(partition)
	return nil
}

func (s *MemoryStorage) openLocked(partition string) map[string]*CachedResponse {
	p, ok := s.partitions[partition]
	if !ok {
		p = make(map[string]*CachedResponse)
		s.partitions[partition] = p
		s.order = append(s.order, partition)
	}
	return p
}

func (s *MemoryStorage) Put(_ context.Context, partition, key string, resp *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openLocked(partition)[key] = resp
	return nil
}

func (s *MemoryStorage) Match(_ context.Context, partition, key string) (*CachedResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partitions[partition][key], nil
}

func (s *MemoryStorage) MatchAny(_ context.Context, key string) (*CachedResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range s.order {
		if resp, ok := s.partitions[name][key]; ok {
			return resp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) Partitions(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...), nil
}

func (s *MemoryStorage) DeletePartition(_ context.Context, partition string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.partitions[partition]; !ok {
		return false, nil
	}
	delete(s.partitions, partition)
	for i, name := range s.order {
		if name == partition {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}
