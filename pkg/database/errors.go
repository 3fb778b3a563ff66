package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes dùng trong repositories
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// PgErrorCode trả về SQLSTATE và constraint name nếu err là *pgconn.PgError
func PgErrorCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

// IsUniqueViolation checks unique_violation, optionally for one constraint
func IsUniqueViolation(err error, constraint string) bool {
	code, name, ok := PgErrorCode(err)
	if !ok || code != CodeUniqueViolation {
		return false
	}
	return constraint == "" || name == constraint
}

// IsForeignKeyViolation checks foreign_key_violation
func IsForeignKeyViolation(err error) bool {
	code, _, ok := PgErrorCode(err)
	return ok && code == CodeForeignKeyViolation
}

// IsCheckViolation checks check_violation
func IsCheckViolation(err error) bool {
	code, _, ok := PgErrorCode(err)
	return ok && code == CodeCheckViolation
}
