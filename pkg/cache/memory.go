package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = time.Minute

// MemoryCache là in-process implementation trên go-cache, dùng khi Redis bị tắt và trong tests
// Values được lưu dạng JSON giống RedisCache để Get có cùng semantics
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, memoryCleanupInterval),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.store.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw.([]byte), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store.Set(key, data, expiration(ttl))
	return nil
}

// SetNX dùng Add của go-cache: atomic, lỗi khi key còn hạn
func (m *MemoryCache) SetNX(_ context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	if err := m.store.Add(key, data, expiration(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.store.Delete(k)
	}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error {
	return nil
}

// ttl <= 0 nghĩa là không hết hạn
func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}
