package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-backend/internal/shared/utils"
)

// Book là một đầu sách trong catalog; Quantity là số bản đang có trên kệ
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      *string   `json:"isbn,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAvailable - còn ít nhất một bản để cho mượn
func (b *Book) IsAvailable() bool {
	return b.Quantity > 0
}

// BookRequest dùng cho cả create và update (PUT thay toàn bộ)
type BookRequest struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ISBN     *string `json:"isbn"`
	Quantity int     `json:"quantity"`
}

func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 200)),
		validation.Field(&r.Author, validation.Required.Error("author is required"), validation.Length(1, 100)),
		validation.Field(&r.ISBN, validation.Length(0, 20)),
		validation.Field(&r.Quantity, validation.Min(0).Error("quantity must not be negative")),
	)
}

// Normalize trim các field text, isbn rỗng -> nil
func (r BookRequest) Normalize() BookRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = utils.NullIfBlank(r.ISBN)
	return r
}

// ToBook map request sang entity (chưa có ID)
func (r BookRequest) ToBook() *Book {
	return &Book{
		Title:    r.Title,
		Author:   r.Author,
		ISBN:     r.ISBN,
		Quantity: r.Quantity,
	}
}

// ListFilter - filter cho GET /books
type ListFilter struct {
	Search        string // title, author hoặc isbn
	AvailableOnly bool
	Limit         int
	Offset        int
}
