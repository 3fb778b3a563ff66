package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/dashboard/model"
	lendingmodel "library-backend/internal/domains/lending/model"
	"library-backend/internal/domains/lending/policy"
	membermodel "library-backend/internal/domains/member/model"
	"library-backend/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	stats   model.Stats
	err     error
	lastDay time.Time
}

func (f *fakeStats) Stats(_ context.Context, today time.Time) (*model.Stats, error) {
	f.lastDay = today
	if f.err != nil {
		return nil, f.err
	}
	s := f.stats
	return &s, nil
}

type fakeBooks struct{ limit int }

func (f *fakeBooks) List(_ context.Context, filter bookmodel.ListFilter) ([]bookmodel.Book, int, error) {
	f.limit = filter.Limit
	return []bookmodel.Book{{ID: 9, Title: "Newest"}}, 9, nil
}

type fakeMembers struct{ limit int }

func (f *fakeMembers) List(_ context.Context, filter membermodel.ListFilter) ([]membermodel.Member, int, error) {
	f.limit = filter.Limit
	return []membermodel.Member{{ID: 3, Name: "An"}}, 3, nil
}

// fakeRecords trả về overdue theo trang để kiểm tra vòng lặp export
type fakeRecords struct {
	overdue  []lendingmodel.RecordResponse
	requests []lendingmodel.ListRequest
}

func (f *fakeRecords) List(_ context.Context, req lendingmodel.ListRequest) ([]lendingmodel.RecordResponse, int, error) {
	f.requests = append(f.requests, req)
	if req.Status != string(lendingmodel.StatusOverdue) {
		return []lendingmodel.RecordResponse{{ID: 1}}, 1, nil
	}

	start := req.Page.Offset()
	if start >= len(f.overdue) {
		return nil, len(f.overdue), nil
	}
	end := min(start+req.Page.Limit, len(f.overdue))
	return f.overdue[start:end], len(f.overdue), nil
}

func strPtr(s string) *string { return &s }

func newService(stats *fakeStats, records *fakeRecords) (*DashboardService, *fakeBooks, *fakeMembers) {
	books, members := &fakeBooks{}, &fakeMembers{}
	svc := NewService(stats, books, members, records,
		policy.NewEngine(policy.DefaultRules()),
		clock.Fixed{T: time.Date(2024, 1, 20, 15, 30, 0, 0, time.UTC)})
	return svc.(*DashboardService), books, members
}

func TestSummary(t *testing.T) {
	stats := &fakeStats{stats: model.Stats{
		TotalBooks: 10, TotalMembers: 4, OpenIssues: 3, AvailableBooks: 8, OverdueIssues: 2, OverdueDays: 7,
	}}
	records := &fakeRecords{}
	svc, books, members := newService(stats, records)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), stats.lastDay)
	assert.Equal(t, "2024-01-20", summary.AsOf)
	assert.Equal(t, 10, summary.TotalBooks)
	assert.Equal(t, 4, summary.TotalMembers)
	assert.Equal(t, 3, summary.ActiveIssues)
	assert.Equal(t, 8, summary.AvailableBooks)
	assert.Equal(t, 2, summary.OverdueIssues)
	assert.Equal(t, "35.00", summary.TotalPendingFines)
	assert.Equal(t, "5.00", summary.FinePerDay)

	assert.Equal(t, 5, books.limit)
	assert.Equal(t, 5, members.limit)
	require.Len(t, records.requests, 1)
	assert.Equal(t, 5, records.requests[0].Page.Limit)
	assert.Len(t, summary.RecentIssues, 1)
}

func TestSummaryNoOverdue(t *testing.T) {
	svc, _, _ := newService(&fakeStats{stats: model.Stats{TotalBooks: 1}}, &fakeRecords{})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.00", summary.TotalPendingFines)
}

func TestSummaryStatsError(t *testing.T) {
	svc, _, _ := newService(&fakeStats{err: errors.New("timeout")}, &fakeRecords{})

	_, err := svc.Summary(context.Background())
	assert.Error(t, err)
}

func TestExportOverdue(t *testing.T) {
	records := &fakeRecords{}
	for i := 1; i <= 130; i++ {
		records.overdue = append(records.overdue, lendingmodel.RecordResponse{
			ID:                 int64(i),
			BookTitle:          fmt.Sprintf("Book %d", i),
			BookAuthor:         "Author",
			MemberName:         "An",
			MemberUniversityID: strPtr("2024001"),
			IssueDate:          "2024-01-01",
			DueDate:            "2024-01-15",
			DaysOverdue:        5,
			CurrentFine:        strPtr("25.00"),
			Status:             lendingmodel.StatusOverdue,
		})
	}
	svc, _, _ := newService(&fakeStats{}, records)

	f, count, err := svc.ExportOverdue(context.Background())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 130, count)
	assert.Len(t, records.requests, 2)

	header, err := f.GetCellValue(overdueSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Record ID", header)

	title, err := f.GetCellValue(overdueSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Book 1", title)

	uid, err := f.GetCellValue(overdueSheet, "E131")
	require.NoError(t, err)
	assert.Equal(t, "2024001", uid)

	days, err := f.GetCellValue(overdueSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "5", days)

	label, err := f.GetCellValue(overdueSheet, "A133")
	require.NoError(t, err)
	assert.Equal(t, "Total pending fines as of 2024-01-20", label)

	total, err := f.GetCellValue(overdueSheet, "I133")
	require.NoError(t, err)
	assert.Equal(t, "3250", total)
}

func TestExportOverdueEmpty(t *testing.T) {
	svc, _, _ := newService(&fakeStats{}, &fakeRecords{})

	f, count, err := svc.ExportOverdue(context.Background())
	require.NoError(t, err)
	defer f.Close()

	assert.Zero(t, count)
	rows, err := f.GetRows(overdueSheet)
	require.NoError(t, err)
	assert.Equal(t, "Record ID", rows[0][0])
}
