package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/database"
)

const bookColumns = `id, title, author, isbn, quantity, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Quantity, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
        INSERT INTO books (title, author, isbn, quantity)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, query, book.Title, book.Author, book.ISBN, book.Quantity).
		Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		if database.IsCheckViolation(err) {
			return apperror.Wrap(apperror.KindValidation, "quantity must not be negative", err)
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	return r.get(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Book, error) {
	return r.get(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresRepository) get(ctx context.Context, query string, id int64) (*model.Book, error) {
	book, err := scanBook(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Book", id)
		}
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}
	return book, nil
}

// List - search theo title/author/isbn (ILIKE), mới nhất trước
func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Book, int, error) {
	var where utils.Where
	where.AddSearch(filter.Search, "title", "author", "isbn")
	if filter.AvailableOnly {
		where.Add("quantity > 0")
	}

	conn := database.Conn(ctx, r.pool)

	var total int
	countQuery := `SELECT COUNT(*) FROM books ` + where.SQL()
	if err := conn.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM books %s ORDER BY id DESC LIMIT %s OFFSET %s`,
		bookColumns, where.SQL(), where.Next(1), where.Next(2))

	rows, err := conn.Query(ctx, query, where.Args(filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, filter.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
        UPDATE books
        SET title = $2, author = $3, isbn = $4, quantity = $5, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `

	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, query, book.ID, book.Title, book.Author, book.ISBN, book.Quantity).
		Scan(&book.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("Book", book.ID)
		}
		if database.IsCheckViolation(err) {
			return apperror.Wrap(apperror.KindValidation, "quantity must not be negative", err)
		}
		return fmt.Errorf("failed to update book %d: %w", book.ID, err)
	}
	return nil
}

func (r *postgresRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE books SET quantity = $2, updated_at = NOW() WHERE id = $1`, id, quantity)
	if err != nil {
		if database.IsCheckViolation(err) {
			return apperror.Wrap(apperror.KindBookUnavailable, "Book is not available. Quantity is zero.", err)
		}
		return fmt.Errorf("failed to update quantity of book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Book", id)
	}
	return nil
}

// Delete - FK ON DELETE RESTRICT từ issue_records -> RecordInUse
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.Wrap(apperror.KindRecordInUse,
				"Cannot delete book: it is referenced by issue records", err)
		}
		return fmt.Errorf("failed to delete book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Book", id)
	}
	return nil
}
