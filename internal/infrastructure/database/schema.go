package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// Schema trả về DDL của books / members / issue_records
func Schema() string {
	return schemaSQL
}

// EnsureSchema tạo tables và indexes nếu chưa tồn tại (idempotent)
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info().Msg("[DATABASE] Schema is up to date")
	return nil
}
