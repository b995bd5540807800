package cache

import (
	"encoding/json"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// memcacheEntry wraps a body with its storage time so staleness is
// decided at lookup with the caller's TTL, not at write time.
type memcacheEntry struct {
	StoredAt int64  `json:"stored_at"`
	Body     []byte `json:"body"`
}

// MemcacheStore implements Store using memcache
type MemcacheStore struct {
	client *memcache.Client
}

// NewMemcacheStore creates a new memcache-backed store
func NewMemcacheStore(serverAddr string) *MemcacheStore {
	return &MemcacheStore{
		client: memcache.New(serverAddr),
	}
}

// Lookup retrieves the body stored at key if it is younger than ttl.
func (m *MemcacheStore) Lookup(key string, ttl time.Duration) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, ErrMiss
	}

	var entry memcacheEntry
	if err := json.Unmarshal(item.Value, &entry); err != nil {
		// Corrupt entry degrades to a miss
		return nil, ErrMiss
	}

	// Age >= ttl is stale; a zero TTL makes every entry stale.
	if time.Since(time.Unix(entry.StoredAt, 0)) >= ttl {
		return nil, ErrMiss
	}

	if len(entry.Body) == 0 {
		return nil, ErrMiss
	}

	return entry.Body, nil
}

// Store persists a body at key, overwriting any prior content.
func (m *MemcacheStore) Store(key string, body []byte) error {
	value, err := json.Marshal(memcacheEntry{
		StoredAt: time.Now().Unix(),
		Body:     body,
	})
	if err != nil {
		return err
	}

	return m.client.Set(&memcache.Item{
		Key:   key,
		Value: value,
	})
}

// Delete removes the entry at key
func (m *MemcacheStore) Delete(key string) error {
	return m.client.Delete(key)
}
