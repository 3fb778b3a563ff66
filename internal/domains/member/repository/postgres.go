package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/database"
)

const (
	memberColumns = `id, name, email, university_id, phone, created_at, updated_at`

	universityIDConstraint = "members_university_id_key"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanMember(row pgx.Row) (*model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.UniversityID, &m.Phone, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func duplicateUniversityID(universityID *string, err error) error {
	return apperror.Wrap(apperror.KindUniquenessViolation,
		fmt.Sprintf("University ID %q is already registered to another member", utils.StringValue(universityID)), err).
		WithDetail("field", "university_id")
}

func (r *postgresRepository) Create(ctx context.Context, m *model.Member) error {
	query := `
        INSERT INTO members (name, email, university_id, phone)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, query, m.Name, m.Email, m.UniversityID, m.Phone).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, universityIDConstraint) {
			return duplicateUniversityID(m.UniversityID, err)
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresRepository) get(ctx context.Context, query string, id int64) (*model.Member, error) {
	m, err := scanMember(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Member", id)
		}
		return nil, fmt.Errorf("failed to get member %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresRepository) GetByUniversityID(ctx context.Context, universityID string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE university_id = $1`

	m, err := scanMember(database.Conn(ctx, r.pool).QueryRow(ctx, query, universityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Newf(apperror.KindNotFound, "Member with university id %q not found", universityID)
		}
		return nil, fmt.Errorf("failed to get member by university id: %w", err)
	}
	return m, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Member, int, error) {
	var where utils.Where
	where.AddSearch(filter.Search, "name", "email", "university_id")

	conn := database.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM members `+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM members %s ORDER BY id DESC LIMIT %s OFFSET %s`,
		memberColumns, where.SQL(), where.Next(1), where.Next(2))

	rows, err := conn.Query(ctx, query, where.Args(filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]model.Member, 0, filter.Limit)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, m *model.Member) error {
	query := `
        UPDATE members
        SET name = $2, email = $3, university_id = $4, phone = $5, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `

	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, query, m.ID, m.Name, m.Email, m.UniversityID, m.Phone).
		Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("Member", m.ID)
		}
		if database.IsUniqueViolation(err, universityIDConstraint) {
			return duplicateUniversityID(m.UniversityID, err)
		}
		return fmt.Errorf("failed to update member %d: %w", m.ID, err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.Wrap(apperror.KindRecordInUse,
				"Cannot delete member: they have issue records", err)
		}
		return fmt.Errorf("failed to delete member %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Member", id)
	}
	return nil
}
