package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperror"
)

type BookService struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &BookService{repo: repo}
}

func (s *BookService) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	book := req.ToBook()
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	log.Info().Int64("book_id", book.ID).Str("title", book.Title).Msg("Book created")
	return book, nil
}

func (s *BookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) ListBooks(ctx context.Context, search string, availableOnly bool, page shared.Pagination) ([]model.Book, int, error) {
	return s.repo.List(ctx, model.ListFilter{
		Search:        strings.TrimSpace(search),
		AvailableOnly: availableOnly,
		Limit:         page.Limit,
		Offset:        page.Offset(),
	})
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Title = req.Title
	book.Author = req.Author
	book.ISBN = req.ISBN
	book.Quantity = req.Quantity

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	log.Info().Int64("book_id", id).Msg("Book updated")
	return book, nil
}

// DeleteBook - sách đã từng được mượn không xoá được (RecordInUse)
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("book_id", id).Msg("Book deleted")
	return nil
}
