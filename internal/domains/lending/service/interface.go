package service

import (
	"context"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/lending/model"
	membermodel "library-backend/internal/domains/member/model"
	"library-backend/internal/shared/result"
)

// ServiceInterface - các workflow mượn / trả sách
// Business rejection nằm trong result.Result, error chỉ dành cho lỗi hạ tầng
type ServiceInterface interface {
	Issue(ctx context.Context, req model.IssueRequest) (result.Result[model.IssueOutcome], error)
	SearchMember(ctx context.Context, key string) (result.Result[model.MemberLookup], error)
	ReturnPreview(ctx context.Context, id int64) (result.Result[model.ReturnPreview], error)
	Return(ctx context.Context, id int64, req model.ReturnRequest) (result.Result[model.ReturnOutcome], error)
	Details(ctx context.Context, id int64) (result.Result[model.RecordResponse], error)
	List(ctx context.Context, req model.ListRequest) ([]model.RecordResponse, int, error)
}

// BookStore là phần của book repository mà workflow cần
type BookStore interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*bookmodel.Book, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
}

// MemberStore là phần của member repository mà workflow cần
type MemberStore interface {
	GetByID(ctx context.Context, id int64) (*membermodel.Member, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*membermodel.Member, error)
	GetByUniversityID(ctx context.Context, universityID string) (*membermodel.Member, error)
}
