// Package pgtest mở PostgreSQL pool cho integration tests.
// Tests bị skip khi LIBRARY_TEST_DATABASE_URL không được set.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"library-backend/internal/infrastructure/database"
)

const EnvDatabaseURL = "LIBRARY_TEST_DATABASE_URL"

// Pool trả về pool đã apply schema và đã xóa sạch dữ liệu
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, database.Schema())
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE issue_records, books, members RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}
