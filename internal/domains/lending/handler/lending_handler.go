package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/lending/model"
	"library-backend/internal/domains/lending/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// Handler - HTTP Handler cho issue / return / search member
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Issue - POST /v1/issue-records
func (h *Handler) Issue(c *gin.Context) {
	var req model.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	res, err := h.service.Issue(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.FromResult(c, http.StatusCreated, res)
}

// SearchMember - GET /v1/members/search?q=<member id | university id>
func (h *Handler) SearchMember(c *gin.Context) {
	res, err := h.service.SearchMember(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.FromResult(c, http.StatusOK, res)
}

// ReturnPreview - GET /v1/issue-records/:id/return
func (h *Handler) ReturnPreview(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid issue record id")
		return
	}

	res, err := h.service.ReturnPreview(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.FromResult(c, http.StatusOK, res)
}

// Return - POST /v1/issue-records/:id/return
// Body optional: {"return_date": "2024-01-20", "fine_paid": true}
func (h *Handler) Return(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid issue record id")
		return
	}

	// body rỗng (kể cả chunked, ContentLength = -1) nghĩa là dùng mặc định
	var req model.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request body")
		return
	}

	res, err := h.service.Return(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.FromResult(c, http.StatusOK, res)
}

// Details - GET /v1/issue-records/:id
func (h *Handler) Details(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid issue record id")
		return
	}

	res, err := h.service.Details(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.FromResult(c, http.StatusOK, res)
}

// List - GET /v1/issue-records?status=open|returned|overdue&member_id=&book_id=&page=&limit=
func (h *Handler) List(c *gin.Context) {
	req := model.ListRequest{
		Status: c.Query("status"),
		Page:   shared.NewPagination(queryInt(c, "page", 1), queryInt(c, "limit", shared.DefaultPageLimit)),
	}

	if v := c.Query("member_id"); v != "" {
		id, ok := utils.ParseID(v)
		if !ok {
			response.BadRequest(c, "invalid member_id")
			return
		}
		req.MemberID = &id
	}
	if v := c.Query("book_id"); v != "" {
		id, ok := utils.ParseID(v)
		if !ok {
			response.BadRequest(c, "invalid book_id")
			return
		}
		req.BookID = &id
	}

	records, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, records, &response.Meta{
		Page:  req.Page.Page,
		Limit: req.Page.Limit,
		Total: total,
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
