package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	membermodel "library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
)

// IssueRequest - POST /issue-records
// Dates dạng "2006-01-02"; issue_date mặc định hôm nay, due_date mặc định issue + loan period
type IssueRequest struct {
	BookID    int64  `json:"book_id"`
	MemberID  int64  `json:"member_id"`
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`
}

func (r IssueRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("book_id is required"), validation.Min(int64(1))),
		validation.Field(&r.MemberID, validation.Required.Error("member_id is required"), validation.Min(int64(1))),
		validation.Field(&r.IssueDate, validation.Date(time.DateOnly).Error("issue_date must be YYYY-MM-DD")),
		validation.Field(&r.DueDate, validation.Date(time.DateOnly).Error("due_date must be YYYY-MM-DD")),
	)
}

// ReturnRequest - POST /issue-records/:id/return
type ReturnRequest struct {
	ReturnDate string `json:"return_date"`
	FinePaid   bool   `json:"fine_paid"`
}

func (r ReturnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReturnDate, validation.Date(time.DateOnly).Error("return_date must be YYYY-MM-DD")),
	)
}

// RecordResponse là issue record trả về API
// CurrentFine / DaysOverdue chỉ có khi record còn mở (tính tại thời điểm đọc)
type RecordResponse struct {
	ID                 int64   `json:"id"`
	BookID             int64   `json:"book_id"`
	BookTitle          string  `json:"book_title"`
	BookAuthor         string  `json:"book_author"`
	MemberID           int64   `json:"member_id"`
	MemberName         string  `json:"member_name"`
	MemberUniversityID *string `json:"member_university_id,omitempty"`
	IssueDate          string  `json:"issue_date"`
	DueDate            string  `json:"due_date"`
	ReturnDate         *string `json:"return_date"`
	Status             Status  `json:"status"`
	FineAmount         string  `json:"fine_amount"`
	IsFinePaid         bool    `json:"is_fine_paid"`
	DaysOverdue        int     `json:"days_overdue"`
	CurrentFine        *string `json:"current_fine,omitempty"`
}

// IssueOutcome - data của Issue thành công
type IssueOutcome struct {
	Record     RecordResponse `json:"record"`
	OpenCount  int            `json:"open_count"`
	MaxAllowed int            `json:"max_allowed"`
	Message    string         `json:"message"`
}

// MemberLookup - data của SearchMember
// OpenCount = 0 vẫn là kết quả "found"
type MemberLookup struct {
	Member      *membermodel.Member `json:"member"`
	OpenRecords []RecordResponse    `json:"open_records"`
	OpenCount   int                 `json:"open_count"`
	MaxAllowed  int                 `json:"max_allowed"`
	CanIssue    bool                `json:"can_issue"`
}

// ReturnPreview - GET /issue-records/:id/return
type ReturnPreview struct {
	Record      RecordResponse `json:"record"`
	ReturnDate  string         `json:"return_date"`
	IsOverdue   bool           `json:"is_overdue"`
	DaysOverdue int            `json:"days_overdue"`
	Fine        string         `json:"fine"`
	FinePerDay  string         `json:"fine_per_day"`
}

// ReturnOutcome - data của Return thành công
type ReturnOutcome struct {
	Record   RecordResponse `json:"record"`
	DaysLate int            `json:"days_late"`
	Message  string         `json:"message"`
}

// ListRequest - query của GET /issue-records
type ListRequest struct {
	Status   string
	MemberID *int64
	BookID   *int64
	Page     shared.Pagination
}
