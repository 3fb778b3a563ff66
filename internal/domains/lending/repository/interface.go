package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"library-backend/internal/domains/lending/model"
)

// RepositoryInterface - data access cho issue_records
type RepositoryInterface interface {
	Create(ctx context.Context, record *model.IssueRecord) error
	// GetByIDForUpdate lock row, phải gọi trong transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*model.IssueRecord, error)
	GetView(ctx context.Context, id int64) (*model.IssueRecordView, error)
	CountOpenByMember(ctx context.Context, memberID int64) (int, error)
	// ListOpenByMember trả về records đang mở, issue_date mới nhất trước
	ListOpenByMember(ctx context.Context, memberID int64) ([]model.IssueRecordView, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.IssueRecordView, int, error)
	MarkReturned(ctx context.Context, id int64, returnDate time.Time, fine decimal.Decimal, finePaid bool) error
}
