package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	memoryShards             = 10
	memoryEvictionPercentage = 10
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps entries in process memory using a sturdyc client.
// sturdyc applies one TTL to the whole client; shorter per-entry TTLs are
// enforced on read.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore creates a store holding up to capacity entries, none of
// which outlives ttl.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		client: sturdyc.New[memoryEntry](capacity, memoryShards, ttl, memoryEvictionPercentage),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !e.expiresAt.After(s.now()) {
		s.client.Delete(key)
		return nil, ErrMiss
	}
	return e.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > s.ttl {
		ttl = s.ttl
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	s.client.Set(key, memoryEntry{value: buf, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for _, k := range s.client.ScanKeys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Size reports the number of entries currently held, expired or not.
func (s *MemoryStore) Size() int {
	return s.client.Size()
}

func (s *MemoryStore) Close() error { return nil }
