package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/lending/model"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/database"
)

const (
	recordColumns = `id, book_id, member_id, issue_date, due_date, return_date, fine_amount, is_fine_paid, created_at, updated_at`

	viewSelect = `
        SELECT r.id, r.book_id, r.member_id, r.issue_date, r.due_date, r.return_date,
               r.fine_amount, r.is_fine_paid, r.created_at, r.updated_at,
               b.title, b.author, m.name, m.university_id
        FROM issue_records r
        JOIN books b ON b.id = r.book_id
        JOIN members m ON m.id = r.member_id
    `
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanRecord(row pgx.Row) (*model.IssueRecord, error) {
	var r model.IssueRecord
	err := row.Scan(&r.ID, &r.BookID, &r.MemberID, &r.IssueDate, &r.DueDate, &r.ReturnDate,
		&r.FineAmount, &r.IsFinePaid, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanView(row pgx.Row) (*model.IssueRecordView, error) {
	var v model.IssueRecordView
	err := row.Scan(&v.ID, &v.BookID, &v.MemberID, &v.IssueDate, &v.DueDate, &v.ReturnDate,
		&v.FineAmount, &v.IsFinePaid, &v.CreatedAt, &v.UpdatedAt,
		&v.BookTitle, &v.BookAuthor, &v.MemberName, &v.MemberUniversityID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectViews(rows pgx.Rows) ([]model.IssueRecordView, error) {
	defer rows.Close()

	views := []model.IssueRecordView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue record: %w", err)
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issue records: %w", err)
	}
	return views, nil
}

func (r *postgresRepository) Create(ctx context.Context, rec *model.IssueRecord) error {
	query := `
        INSERT INTO issue_records (book_id, member_id, issue_date, due_date, fine_amount, is_fine_paid)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `

	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, query, rec.BookID, rec.MemberID, rec.IssueDate, rec.DueDate, rec.FineAmount, rec.IsFinePaid).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.Wrap(apperror.KindNotFound, "Book or member no longer exists", err)
		}
		return fmt.Errorf("failed to create issue record: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.IssueRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM issue_records WHERE id = $1 FOR UPDATE`

	rec, err := scanRecord(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Issue record", id)
		}
		return nil, fmt.Errorf("failed to lock issue record %d: %w", id, err)
	}
	return rec, nil
}

func (r *postgresRepository) GetView(ctx context.Context, id int64) (*model.IssueRecordView, error) {
	v, err := scanView(database.Conn(ctx, r.pool).QueryRow(ctx, viewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Issue record", id)
		}
		return nil, fmt.Errorf("failed to get issue record %d: %w", id, err)
	}
	return v, nil
}

func (r *postgresRepository) CountOpenByMember(ctx context.Context, memberID int64) (int, error) {
	var count int
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM issue_records WHERE member_id = $1 AND return_date IS NULL`, memberID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open records of member %d: %w", memberID, err)
	}
	return count, nil
}

func (r *postgresRepository) ListOpenByMember(ctx context.Context, memberID int64) ([]model.IssueRecordView, error) {
	query := viewSelect + ` WHERE r.member_id = $1 AND r.return_date IS NULL ORDER BY r.issue_date DESC, r.id DESC`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open records of member %d: %w", memberID, err)
	}
	return collectViews(rows)
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.IssueRecordView, int, error) {
	var where utils.Where
	switch filter.Status {
	case model.StatusOpen:
		where.Add("r.return_date IS NULL")
	case model.StatusReturned:
		where.Add("r.return_date IS NOT NULL")
	case model.StatusOverdue:
		where.Add("r.return_date IS NULL AND r.due_date < ?", filter.Today)
	}
	if filter.MemberID != nil {
		where.Add("r.member_id = ?", *filter.MemberID)
	}
	if filter.BookID != nil {
		where.Add("r.book_id = ?", *filter.BookID)
	}

	conn := database.Conn(ctx, r.pool)

	var total int
	countQuery := `SELECT COUNT(*) FROM issue_records r ` + where.SQL()
	if err := conn.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count issue records: %w", err)
	}

	query := fmt.Sprintf(`%s %s ORDER BY r.issue_date DESC, r.id DESC LIMIT %s OFFSET %s`,
		viewSelect, where.SQL(), where.Next(1), where.Next(2))

	rows, err := conn.Query(ctx, query, where.Args(filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issue records: %w", err)
	}

	views, err := collectViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// MarkReturned chỉ update record còn mở; 0 rows nghĩa là đã có người trả trước
func (r *postgresRepository) MarkReturned(ctx context.Context, id int64, returnDate time.Time, fine decimal.Decimal, finePaid bool) error {
	query := `
        UPDATE issue_records
        SET return_date = $2, fine_amount = $3, is_fine_paid = $4, updated_at = NOW()
        WHERE id = $1 AND return_date IS NULL
    `

	tag, err := database.Conn(ctx, r.pool).Exec(ctx, query, id, returnDate, fine, finePaid)
	if err != nil {
		return fmt.Errorf("failed to mark issue record %d returned: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.New(apperror.KindAlreadyReturned, "This book has already been returned.")
	}
	return nil
}
