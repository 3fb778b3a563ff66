package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/dashboard/model"
	"library-backend/pkg/database"
)

// StatsRepository - aggregate queries cho dashboard (read-only)
type StatsRepository interface {
	Stats(ctx context.Context, today time.Time) (*model.Stats, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) StatsRepository {
	return &postgresRepository{pool: pool}
}

// Stats đếm tất cả trong một round-trip
// overdue: record đang mở có due_date < today
func (r *postgresRepository) Stats(ctx context.Context, today time.Time) (*model.Stats, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM books),
            (SELECT COUNT(*) FROM members),
            (SELECT COUNT(*) FROM issue_records WHERE return_date IS NULL),
            (SELECT COUNT(*) FROM books WHERE quantity > 0),
            (SELECT COUNT(*) FROM issue_records WHERE return_date IS NULL AND due_date < $1::date),
            (SELECT COALESCE(SUM($1::date - due_date), 0)
               FROM issue_records WHERE return_date IS NULL AND due_date < $1::date)
    `

	var s model.Stats
	err := database.Conn(ctx, r.pool).QueryRow(ctx, query, today).Scan(
		&s.TotalBooks,
		&s.TotalMembers,
		&s.OpenIssues,
		&s.AvailableBooks,
		&s.OverdueIssues,
		&s.OverdueDays,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &s, nil
}
