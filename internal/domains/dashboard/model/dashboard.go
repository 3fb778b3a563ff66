package model

import (
	bookmodel "library-backend/internal/domains/book/model"
	lendingmodel "library-backend/internal/domains/lending/model"
	membermodel "library-backend/internal/domains/member/model"
)

// Stats là các con số đếm thô từ database tại ngày Today
// OverdueDays = tổng số ngày trễ của mọi record đang mở đã quá hạn
type Stats struct {
	TotalBooks     int
	TotalMembers   int
	OpenIssues     int
	AvailableBooks int
	OverdueIssues  int
	OverdueDays    int64
}

// Summary - GET /dashboard
type Summary struct {
	AsOf              string                        `json:"as_of"`
	TotalBooks        int                           `json:"total_books"`
	TotalMembers      int                           `json:"total_members"`
	ActiveIssues      int                           `json:"active_issues"`
	AvailableBooks    int                           `json:"available_books"`
	OverdueIssues     int                           `json:"overdue_issues"`
	TotalPendingFines string                        `json:"total_pending_fines"`
	FinePerDay        string                        `json:"fine_per_day"`
	RecentBooks       []bookmodel.Book              `json:"recent_books"`
	RecentMembers     []membermodel.Member          `json:"recent_members"`
	RecentIssues      []lendingmodel.RecordResponse `json:"recent_issues"`
}
