package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// Handler - HTTP Handler cho /books
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /v1/books
// Query params: search, available, page, limit
func (h *Handler) ListBooks(c *gin.Context) {
	page := shared.NewPagination(queryInt(c, "page", 1), queryInt(c, "limit", shared.DefaultPageLimit))
	available, _ := strconv.ParseBool(c.Query("available"))

	books, total, err := h.service.ListBooks(c.Request.Context(), c.Query("search"), available, page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
	})
}

// GetBook - GET /v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// CreateBook - POST /v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// UpdateBook - PUT /v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid book id")
		return
	}

	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// DeleteBook - DELETE /v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid book id")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
