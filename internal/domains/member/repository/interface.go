package repository

import (
	"context"

	"library-backend/internal/domains/member/model"
)

// RepositoryInterface - data access cho members
type RepositoryInterface interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	// GetByIDForUpdate lock row, phải gọi trong transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Member, error)
	GetByUniversityID(ctx context.Context, universityID string) (*model.Member, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Member, int, error)
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id int64) error
}
