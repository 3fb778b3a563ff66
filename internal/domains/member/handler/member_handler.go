package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListMembers - GET /v1/members?search=&page=&limit=
func (h *Handler) ListMembers(c *gin.Context) {
	page := shared.NewPagination(queryInt(c, "page", 1), queryInt(c, "limit", shared.DefaultPageLimit))

	members, total, err := h.service.ListMembers(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, members, &response.Meta{
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
	})
}

// GetMember - GET /v1/members/:id
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid member id")
		return
	}

	member, err := h.service.GetMember(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, member)
}

// CreateMember - POST /v1/members
func (h *Handler) CreateMember(c *gin.Context) {
	var req model.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	member, err := h.service.CreateMember(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, member)
}

// UpdateMember - PUT /v1/members/:id
func (h *Handler) UpdateMember(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid member id")
		return
	}

	var req model.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	member, err := h.service.UpdateMember(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, member)
}

// DeleteMember - DELETE /v1/members/:id
func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid member id")
		return
	}

	if err := h.service.DeleteMember(c.Request.Context(), id); err != nil {
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
