package service

import (
	"time"

	"library-backend/internal/domains/lending/model"
	"library-backend/internal/domains/lending/policy"
)

const displayDateLayout = "02/01/2006"

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// present map view sang RecordResponse; record còn mở được tính fine tại now
func present(engine *policy.Engine, v model.IssueRecordView, now time.Time) model.RecordResponse {
	resp := model.RecordResponse{
		ID:                 v.ID,
		BookID:             v.BookID,
		BookTitle:          v.BookTitle,
		BookAuthor:         v.BookAuthor,
		MemberID:           v.MemberID,
		MemberName:         v.MemberName,
		MemberUniversityID: v.MemberUniversityID,
		IssueDate:          formatDate(v.IssueDate),
		DueDate:            formatDate(v.DueDate),
		FineAmount:         v.FineAmount.StringFixed(2),
		IsFinePaid:         v.IsFinePaid,
	}

	if !v.IsOpen() {
		returned := formatDate(*v.ReturnDate)
		resp.ReturnDate = &returned
		resp.Status = model.StatusReturned
		resp.DaysOverdue = engine.DaysLate(v.DueDate, *v.ReturnDate)
		return resp
	}

	a := engine.Assess(v.DueDate, now)
	fine := a.Fine.StringFixed(2)
	resp.CurrentFine = &fine
	resp.DaysOverdue = a.DaysOverdue
	resp.Status = model.StatusOpen
	if a.IsOverdue {
		resp.Status = model.StatusOverdue
	}
	return resp
}

func presentAll(engine *policy.Engine, views []model.IssueRecordView, now time.Time) []model.RecordResponse {
	out := make([]model.RecordResponse, 0, len(views))
	for _, v := range views {
		out = append(out, present(engine, v, now))
	}
	return out
}
