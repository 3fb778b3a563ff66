package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"library-backend/internal/domains/lending/model"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/result"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	issue      result.Result[model.IssueOutcome]
	ret        result.Result[model.ReturnOutcome]
	lookup     result.Result[model.MemberLookup]
	err        error
	lastReturn model.ReturnRequest
	lastList   model.ListRequest
	lastKey    string
}

func (s *stubService) Issue(context.Context, model.IssueRequest) (result.Result[model.IssueOutcome], error) {
	return s.issue, s.err
}

func (s *stubService) SearchMember(_ context.Context, key string) (result.Result[model.MemberLookup], error) {
	s.lastKey = key
	return s.lookup, s.err
}

func (s *stubService) ReturnPreview(context.Context, int64) (result.Result[model.ReturnPreview], error) {
	return result.Fail[model.ReturnPreview](apperror.KindAlreadyReturned, "This book has already been returned."), s.err
}

func (s *stubService) Return(_ context.Context, _ int64, req model.ReturnRequest) (result.Result[model.ReturnOutcome], error) {
	s.lastReturn = req
	return s.ret, s.err
}

func (s *stubService) Details(context.Context, int64) (result.Result[model.RecordResponse], error) {
	return result.Ok(model.RecordResponse{ID: 3}), s.err
}

func (s *stubService) List(_ context.Context, req model.ListRequest) ([]model.RecordResponse, int, error) {
	s.lastList = req
	return []model.RecordResponse{}, 0, s.err
}

func newRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.GET("/members/search", h.SearchMember)
	r.GET("/issue-records", h.List)
	r.POST("/issue-records", h.Issue)
	r.GET("/issue-records/:id", h.Details)
	r.GET("/issue-records/:id/return", h.ReturnPreview)
	r.POST("/issue-records/:id/return", h.Return)
	return r
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueCreated(t *testing.T) {
	svc := &stubService{issue: result.Ok(model.IssueOutcome{Message: "Book issued successfully!", OpenCount: 1, MaxAllowed: 5})}
	r := newRouter(svc)

	w := request(r, http.MethodPost, "/issue-records", `{"book_id":1,"member_id":2}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Success bool               `json:"success"`
		Data    model.IssueOutcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data.OpenCount)
}

func TestIssueRejectionStatus(t *testing.T) {
	tests := []struct {
		kind   apperror.Kind
		status int
	}{
		{apperror.KindOverBorrowLimit, http.StatusUnprocessableEntity},
		{apperror.KindBookUnavailable, http.StatusConflict},
		{apperror.KindNotFound, http.StatusNotFound},
		{apperror.KindValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r := newRouter(&stubService{issue: result.Fail[model.IssueOutcome](tt.kind, "rejected")})
			w := request(r, http.MethodPost, "/issue-records", `{"book_id":1,"member_id":2}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"message":"rejected"`)
		})
	}
}

func TestIssueInfrastructureError(t *testing.T) {
	r := newRouter(&stubService{err: errors.New("db down")})

	w := request(r, http.MethodPost, "/issue-records", `{"book_id":1,"member_id":2}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReturnWithoutBody(t *testing.T) {
	svc := &stubService{ret: result.Ok(model.ReturnOutcome{Message: "Book returned successfully on time!"})}
	r := newRouter(svc)

	w := request(r, http.MethodPost, "/issue-records/5/return", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ReturnRequest{}, svc.lastReturn)
	assert.Contains(t, w.Body.String(), "on time")
}

func TestReturnWithBody(t *testing.T) {
	svc := &stubService{ret: result.Ok(model.ReturnOutcome{})}
	r := newRouter(svc)

	w := request(r, http.MethodPost, "/issue-records/5/return", `{"return_date":"2024-01-20","fine_paid":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ReturnRequest{ReturnDate: "2024-01-20", FinePaid: true}, svc.lastReturn)
}

func TestReturnBodyVariants(t *testing.T) {
	tests := []struct {
		name          string
		body          io.Reader
		contentLength int64
		wantCode      int
		wantReq       model.ReturnRequest
	}{
		{name: "chunked empty body", body: strings.NewReader(""), contentLength: -1, wantCode: http.StatusOK},
		{name: "no body", body: http.NoBody, contentLength: 0, wantCode: http.StatusOK},
		{
			name:          "chunked json body",
			body:          strings.NewReader(`{"fine_paid":true}`),
			contentLength: -1,
			wantCode:      http.StatusOK,
			wantReq:       model.ReturnRequest{FinePaid: true},
		},
		{name: "malformed json", body: strings.NewReader(`{"fine_paid":`), contentLength: -1, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{ret: result.Ok(model.ReturnOutcome{})}
			r := newRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/issue-records/5/return", tt.body)
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantReq, svc.lastReturn)
			}
		})
	}
}

func TestReturnPreviewAlreadyReturned(t *testing.T) {
	r := newRouter(&stubService{})

	w := request(r, http.MethodGet, "/issue-records/5/return", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_RETURNED")
}

func TestSearchMemberPassesQuery(t *testing.T) {
	svc := &stubService{lookup: result.Fail[model.MemberLookup](apperror.KindNotFound, "No member found")}
	r := newRouter(svc)

	w := request(r, http.MethodGet, "/members/search?q=2024001", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "2024001", svc.lastKey)
}

func TestListQuery(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := request(r, http.MethodGet, "/issue-records?status=overdue&member_id=4&page=2&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "overdue", svc.lastList.Status)
	require.NotNil(t, svc.lastList.MemberID)
	assert.Equal(t, int64(4), *svc.lastList.MemberID)
	assert.Nil(t, svc.lastList.BookID)
	assert.Equal(t, 2, svc.lastList.Page.Page)
	assert.Equal(t, 5, svc.lastList.Page.Limit)

	w = request(r, http.MethodGet, "/issue-records?member_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
