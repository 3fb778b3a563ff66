package database

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Close đóng tất cả connections trong pool
// Safe to call multiple times - subsequent calls sẽ là no-op
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}

	log.Info().Msg("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
}

// PoolStats là snapshot thống kê connection pool, trả về ở health endpoint
type PoolStats struct {
	TotalConns         int32         `json:"total_conns"`
	IdleConns          int32         `json:"idle_conns"`
	AcquiredConns      int32         `json:"acquired_conns"`
	MaxConns           int32         `json:"max_conns"`
	AcquireCount       int64         `json:"acquire_count"`
	AvgAcquireDuration time.Duration `json:"avg_acquire_duration_ns"`
}

// Stats trả về snapshot của connection pool statistics
func (db *PostgresDB) Stats() *PoolStats {
	if db.Pool == nil {
		return nil
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:         raw.TotalConns(),
		IdleConns:          raw.IdleConns(),
		AcquiredConns:      raw.AcquiredConns(),
		MaxConns:           raw.MaxConns(),
		AcquireCount:       raw.AcquireCount(),
		AvgAcquireDuration: calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
	}
}

// calculateAvgDuration là helper để tính average acquire duration
func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}
