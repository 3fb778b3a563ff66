package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err error
}

func (s stubService) CreateMember(_ context.Context, req model.MemberRequest) (*model.Member, error) {
	if s.err != nil {
		return nil, s.err
	}
	m := req.ToMember()
	m.ID = 1
	return m, nil
}

func (s stubService) GetMember(_ context.Context, id int64) (*model.Member, error) {
	return &model.Member{ID: id, Name: "An"}, s.err
}

func (s stubService) ListMembers(context.Context, string, shared.Pagination) ([]model.Member, int, error) {
	return nil, 0, s.err
}

func (s stubService) UpdateMember(_ context.Context, id int64, _ model.MemberRequest) (*model.Member, error) {
	return &model.Member{ID: id}, s.err
}

func (s stubService) DeleteMember(context.Context, int64) error { return s.err }

func newRouter(svc stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/members", h.CreateMember)
	r.PUT("/members/:id", h.UpdateMember)
	r.GET("/members", h.ListMembers)
	return r
}

func send(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateMemberDuplicateUniversityID(t *testing.T) {
	r := newRouter(stubService{err: apperror.New(apperror.KindUniquenessViolation, "University ID \"U-1\" is already registered to another member")})

	w := send(r, http.MethodPost, "/members", map[string]any{"name": "An", "email": "an@uni.edu", "university_id": "U-1"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "UNIQUENESS_VIOLATION")
}

func TestCreateMember(t *testing.T) {
	r := newRouter(stubService{})

	w := send(r, http.MethodPost, "/members", map[string]any{"name": "An", "email": "an@uni.edu"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"an@uni.edu"`)
}

func TestUpdateMemberInvalidID(t *testing.T) {
	r := newRouter(stubService{})

	w := send(r, http.MethodPut, "/members/zero", map[string]any{"name": "An"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMembersEmpty(t *testing.T) {
	r := newRouter(stubService{})

	w := send(r, http.MethodGet, "/members", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}
