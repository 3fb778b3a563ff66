package repository

import (
	"context"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface - Định nghĩa data access methods cho books
// Các method đọc/ghi dùng transaction trong ctx nếu có
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	// GetByIDForUpdate lock row (SELECT ... FOR UPDATE), phải gọi trong transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Book, int, error)
	Update(ctx context.Context, book *model.Book) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) error
}
