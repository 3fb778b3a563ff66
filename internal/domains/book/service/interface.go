package service

import (
	"context"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared"
)

// ServiceInterface - Định nghĩa business logic methods cho catalog sách
type ServiceInterface interface {
	CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	ListBooks(ctx context.Context, search string, availableOnly bool, page shared.Pagination) ([]model.Book, int, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}
