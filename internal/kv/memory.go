package kv

import (
	cache "github.com/patrickmn/go-cache"
)

// MemoryStore is a transient Store on top of go-cache. Entries never expire.
type MemoryStore struct {
	db *cache.Cache
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{db: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	x, found := m.db.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	return append([]byte(nil), x.([]byte)...), nil
}

func (m *MemoryStore) Put(key string, value []byte) error {
	m.db.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.db.Delete(key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	items := m.db.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MemoryStore) Close() error {
	m.db.Flush()
	return nil
}
