package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueRecord là một lần mượn sách: OPEN (ReturnDate nil) -> RETURNED
// Không bao giờ bị xoá, dùng làm audit trail
type IssueRecord struct {
	ID         int64
	BookID     int64
	MemberID   int64
	IssueDate  time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	FineAmount decimal.Decimal
	IsFinePaid bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *IssueRecord) IsOpen() bool {
	return r.ReturnDate == nil
}

// IssueRecordView là record kèm thông tin sách / member được join sẵn
type IssueRecordView struct {
	IssueRecord
	BookTitle          string
	BookAuthor         string
	MemberName         string
	MemberUniversityID *string
}

// Status lọc danh sách issue records
type Status string

const (
	StatusAll      Status = ""
	StatusOpen     Status = "open"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusAll, StatusOpen, StatusReturned, StatusOverdue:
		return st, true
	default:
		return "", false
	}
}

// ListFilter - Today dùng cho StatusOverdue (due_date < Today)
type ListFilter struct {
	Status   Status
	MemberID *int64
	BookID   *int64
	Today    time.Time
	Limit    int
	Offset   int
}
