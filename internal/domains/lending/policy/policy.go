// Package policy chứa các rule cho mượn / trả sách.
// Engine không có state và không truy cập database, mọi input đều được truyền vào.
package policy

import (
	"time"

	"library-backend/internal/shared/apperror"
	"library-backend/pkg/clock"

	"github.com/shopspring/decimal"
)

// Rules là các tham số có thể cấu hình của lending policy
type Rules struct {
	FinePerDay     decimal.Decimal
	MaxOpenIssues  int
	LoanPeriodDays int
}

// DefaultRules: 5.00 / ngày, tối đa 5 cuốn, hạn trả 14 ngày
func DefaultRules() Rules {
	return Rules{
		FinePerDay:     decimal.RequireFromString("5.00"),
		MaxOpenIssues:  5,
		LoanPeriodDays: 14,
	}
}

type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

const secondsPerDay = 24 * 60 * 60

// DaysLate trả về số ngày (theo calendar date) mà at vượt quá due, 0 nếu không trễ
func (e *Engine) DaysLate(due, at time.Time) int {
	d, a := clock.Date(due), clock.Date(at)
	if !a.After(d) {
		return 0
	}
	// đếm qua Unix seconds, time.Duration chỉ chứa được ~292 năm
	return int((a.Unix() - d.Unix()) / secondsPerDay)
}

// CalculateFine = DaysLate × FinePerDay, làm tròn 2 chữ số
func (e *Engine) CalculateFine(due, at time.Time) decimal.Decimal {
	days := e.DaysLate(due, at)
	if days == 0 {
		return decimal.Zero
	}
	return e.rules.FinePerDay.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// CheckEligibility từ chối khi member đã mượn đủ số sách tối đa
func (e *Engine) CheckEligibility(openCount int) error {
	if openCount < e.rules.MaxOpenIssues {
		return nil
	}

	return apperror.Newf(apperror.KindOverBorrowLimit,
		"Cannot issue book! Member has already issued %d books. Maximum limit is %d books at a time.",
		openCount, e.rules.MaxOpenIssues).
		WithDetail("current_count", openCount).
		WithDetail("max_allowed", e.rules.MaxOpenIssues)
}

// CheckAvailability từ chối khi không còn bản nào trên kệ
func (e *Engine) CheckAvailability(quantity int) error {
	if quantity > 0 {
		return nil
	}
	return apperror.New(apperror.KindBookUnavailable, "Book is not available. Quantity is zero.")
}

// DueDate trả về explicit nếu có, ngược lại issue + LoanPeriodDays
func (e *Engine) DueDate(issueDate time.Time, explicit *time.Time) time.Time {
	if explicit != nil {
		return clock.Date(*explicit)
	}
	return clock.Date(issueDate).AddDate(0, 0, e.rules.LoanPeriodDays)
}

// Assessment là fine tính tại thời điểm đọc cho một record đang mở.
// Không được lưu lại: fine tiếp tục tăng cho tới khi sách được trả.
type Assessment struct {
	IsOverdue   bool            `json:"is_overdue"`
	DaysOverdue int             `json:"days_overdue"`
	Fine        decimal.Decimal `json:"fine"`
}

func (e *Engine) Assess(due, now time.Time) Assessment {
	days := e.DaysLate(due, now)
	return Assessment{
		IsOverdue:   days > 0,
		DaysOverdue: days,
		Fine:        e.CalculateFine(due, now),
	}
}
