package cache

import (
	"context"
	"time"
)

// Cache interface định nghĩa contract cho cache layer
// Cho phép swap implementation (Redis, In-memory)
type Cache interface {
	// Get lấy data từ cache và unmarshal vào dest
	// Returns: (found bool, error)
	// - found = true: cache hit, data đã unmarshal vào dest
	// - found = false: cache miss, dest không bị thay đổi
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set lưu data vào cache với TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// SetNX chỉ set khi key chưa tồn tại, return true nếu đã set
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	// Delete xóa các keys khỏi cache
	Delete(ctx context.Context, keys ...string) error

	// Ping kiểm tra connection
	Ping(ctx context.Context) error
}
