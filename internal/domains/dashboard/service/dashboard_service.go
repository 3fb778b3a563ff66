package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/dashboard/model"
	"library-backend/internal/domains/dashboard/repository"
	lendingmodel "library-backend/internal/domains/lending/model"
	"library-backend/internal/domains/lending/policy"
	membermodel "library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
	"library-backend/pkg/clock"
)

const (
	recentLimit     = 5
	exportPageLimit = shared.MaxPageLimit
)

// ServiceInterface - dashboard là projection chỉ đọc
type ServiceInterface interface {
	Summary(ctx context.Context) (*model.Summary, error)
	ExportOverdue(ctx context.Context) (*excelize.File, int, error)
}

type BookLister interface {
	List(ctx context.Context, filter bookmodel.ListFilter) ([]bookmodel.Book, int, error)
}

type MemberLister interface {
	List(ctx context.Context, filter membermodel.ListFilter) ([]membermodel.Member, int, error)
}

// RecordLister là lending service: records đã kèm fine tính tại thời điểm đọc
type RecordLister interface {
	List(ctx context.Context, req lendingmodel.ListRequest) ([]lendingmodel.RecordResponse, int, error)
}

type DashboardService struct {
	stats   repository.StatsRepository
	books   BookLister
	members MemberLister
	records RecordLister
	engine  *policy.Engine
	clock   clock.Clock
}

func NewService(
	stats repository.StatsRepository,
	books BookLister,
	members MemberLister,
	records RecordLister,
	engine *policy.Engine,
	clk clock.Clock,
) ServiceInterface {
	return &DashboardService{
		stats:   stats,
		books:   books,
		members: members,
		records: records,
		engine:  engine,
		clock:   clk,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*model.Summary, error) {
	today := clock.Date(s.clock.Now())

	stats, err := s.stats.Stats(ctx, today)
	if err != nil {
		return nil, err
	}

	books, _, err := s.books.List(ctx, bookmodel.ListFilter{Limit: recentLimit})
	if err != nil {
		return nil, fmt.Errorf("recent books: %w", err)
	}

	members, _, err := s.members.List(ctx, membermodel.ListFilter{Limit: recentLimit})
	if err != nil {
		return nil, fmt.Errorf("recent members: %w", err)
	}

	issues, _, err := s.records.List(ctx, lendingmodel.ListRequest{Page: shared.NewPagination(1, recentLimit)})
	if err != nil {
		return nil, fmt.Errorf("recent issues: %w", err)
	}

	rate := s.engine.Rules().FinePerDay
	pending := rate.Mul(decimal.NewFromInt(stats.OverdueDays)).Round(2)

	return &model.Summary{
		AsOf:              today.Format("2006-01-02"),
		TotalBooks:        stats.TotalBooks,
		TotalMembers:      stats.TotalMembers,
		ActiveIssues:      stats.OpenIssues,
		AvailableBooks:    stats.AvailableBooks,
		OverdueIssues:     stats.OverdueIssues,
		TotalPendingFines: pending.StringFixed(2),
		FinePerDay:        rate.StringFixed(2),
		RecentBooks:       books,
		RecentMembers:     members,
		RecentIssues:      issues,
	}, nil
}

// ExportOverdue đọc hết các record quá hạn theo trang rồi render ra xlsx
func (s *DashboardService) ExportOverdue(ctx context.Context) (*excelize.File, int, error) {
	var overdue []lendingmodel.RecordResponse
	for page := 1; ; page++ {
		batch, total, err := s.records.List(ctx, lendingmodel.ListRequest{
			Status: string(lendingmodel.StatusOverdue),
			Page:   shared.NewPagination(page, exportPageLimit),
		})
		if err != nil {
			return nil, 0, fmt.Errorf("list overdue records: %w", err)
		}
		overdue = append(overdue, batch...)
		if len(batch) == 0 || len(overdue) >= total {
			break
		}
	}

	f, err := buildOverdueExcelFile(overdue, clock.Date(s.clock.Now()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, len(overdue), nil
}
