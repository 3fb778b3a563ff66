package policy

import (
	"time"

	"library-backend/internal/shared/apperror"
	"library-backend/pkg/clock"

	"github.com/shopspring/decimal"
)

// IssueInput là state hiện tại mà DecideIssue cần
type IssueInput struct {
	OpenCount    int
	BookQuantity int
	IssueDate    time.Time
	DueDate      *time.Time
}

// IssueDecision mô tả các thay đổi cần ghi xuống store
type IssueDecision struct {
	IssueDate       time.Time
	DueDate         time.Time
	NewBookQuantity int
	FineAmount      decimal.Decimal
	IsFinePaid      bool
	OpenCountAfter  int
}

// DecideIssue: eligibility -> availability -> due date
func (e *Engine) DecideIssue(in IssueInput) (IssueDecision, error) {
	if err := e.CheckEligibility(in.OpenCount); err != nil {
		return IssueDecision{}, err
	}
	if err := e.CheckAvailability(in.BookQuantity); err != nil {
		return IssueDecision{}, err
	}

	issueDate := clock.Date(in.IssueDate)
	due := e.DueDate(issueDate, in.DueDate)
	if due.Before(issueDate) {
		return IssueDecision{}, apperror.Validation("Due date cannot be before the issue date.", map[string]any{
			"due_date": "must not be before issue_date",
		})
	}

	return IssueDecision{
		IssueDate:       issueDate,
		DueDate:         due,
		NewBookQuantity: in.BookQuantity - 1,
		FineAmount:      decimal.Zero,
		IsFinePaid:      false,
		OpenCountAfter:  in.OpenCount + 1,
	}, nil
}

// ReturnInput là state của record và cuốn sách tại thời điểm trả
type ReturnInput struct {
	IssueDate    time.Time
	DueDate      time.Time
	ReturnedAt   *time.Time // return date đã lưu, nil nếu record còn mở
	ReturnDate   time.Time
	FinePaid     bool
	BookQuantity int
}

type ReturnDecision struct {
	ReturnDate      time.Time
	DaysLate        int
	FineAmount      decimal.Decimal
	IsFinePaid      bool
	NewBookQuantity int
}

// DecideReturn: record đã đóng -> AlreadyReturned, ngược lại tính fine.
// Paid flag của caller chỉ có ý nghĩa khi fine > 0.
func (e *Engine) DecideReturn(in ReturnInput) (ReturnDecision, error) {
	if in.ReturnedAt != nil {
		return ReturnDecision{}, apperror.New(apperror.KindAlreadyReturned, "This book has already been returned.").
			WithDetail("return_date", clock.Date(*in.ReturnedAt).Format(time.DateOnly))
	}

	returnDate := clock.Date(in.ReturnDate)
	if returnDate.Before(clock.Date(in.IssueDate)) {
		return ReturnDecision{}, apperror.Validation("Return date cannot be before the issue date.", map[string]any{
			"return_date": "must not be before issue_date",
		})
	}

	fine := e.CalculateFine(in.DueDate, returnDate)
	paid := true
	if fine.IsPositive() {
		paid = in.FinePaid
	}

	return ReturnDecision{
		ReturnDate:      returnDate,
		DaysLate:        e.DaysLate(in.DueDate, returnDate),
		FineAmount:      fine,
		IsFinePaid:      paid,
		NewBookQuantity: in.BookQuantity + 1,
	}, nil
}
