package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/lending/model"
	"library-backend/internal/domains/lending/policy"
	"library-backend/internal/domains/lending/repository"
	membermodel "library-backend/internal/domains/member/model"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/result"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/clock"
	"library-backend/pkg/database"
)

type LendingService struct {
	tx      database.Transactor
	records repository.RepositoryInterface
	books   BookStore
	members MemberStore
	engine  *policy.Engine
	clock   clock.Clock
}

func NewService(
	tx database.Transactor,
	records repository.RepositoryInterface,
	books BookStore,
	members MemberStore,
	engine *policy.Engine,
	clk clock.Clock,
) ServiceInterface {
	return &LendingService{
		tx:      tx,
		records: records,
		books:   books,
		members: members,
		engine:  engine,
		clock:   clk,
	}
}

// reject chuyển business rejection thành Result, lỗi hạ tầng được trả lên nguyên vẹn
func reject[T any](op string, err error) (result.Result[T], error) {
	if r, ok := result.FromError[T](err); ok {
		log.Info().Str("op", op).Str("kind", string(r.ErrorKind)).Msg(r.ErrorMessage)
		return r, nil
	}
	return result.Result[T]{}, fmt.Errorf("%s: %w", op, err)
}

// Issue cho member mượn một cuốn sách
// member, book được lock theo thứ tự member -> book trong cùng transaction
func (s *LendingService) Issue(ctx context.Context, req model.IssueRequest) (result.Result[model.IssueOutcome], error) {
	const op = "issue book"

	if err := req.Validate(); err != nil {
		return reject[model.IssueOutcome](op, apperror.FromValidation(err))
	}

	issueDate := clock.Date(s.clock.Now())
	if d, _ := utils.ParseDate(req.IssueDate); d != nil {
		issueDate = *d
	}
	explicitDue, _ := utils.ParseDate(req.DueDate)

	var outcome model.IssueOutcome
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		member, err := s.members.GetByIDForUpdate(ctx, req.MemberID)
		if err != nil {
			return err
		}

		openCount, err := s.records.CountOpenByMember(ctx, member.ID)
		if err != nil {
			return err
		}

		book, err := s.books.GetByIDForUpdate(ctx, req.BookID)
		if err != nil {
			return err
		}

		decision, err := s.engine.DecideIssue(policy.IssueInput{
			OpenCount:    openCount,
			BookQuantity: book.Quantity,
			IssueDate:    issueDate,
			DueDate:      explicitDue,
		})
		if err != nil {
			return err
		}

		if err := s.books.UpdateQuantity(ctx, book.ID, decision.NewBookQuantity); err != nil {
			return err
		}

		record := &model.IssueRecord{
			BookID:     book.ID,
			MemberID:   member.ID,
			IssueDate:  decision.IssueDate,
			DueDate:    decision.DueDate,
			FineAmount: decision.FineAmount,
			IsFinePaid: decision.IsFinePaid,
		}
		if err := s.records.Create(ctx, record); err != nil {
			return err
		}

		view := model.IssueRecordView{
			IssueRecord:        *record,
			BookTitle:          book.Title,
			BookAuthor:         book.Author,
			MemberName:         member.Name,
			MemberUniversityID: member.UniversityID,
		}

		maxAllowed := s.engine.Rules().MaxOpenIssues
		outcome = model.IssueOutcome{
			Record:     present(s.engine, view, s.clock.Now()),
			OpenCount:  decision.OpenCountAfter,
			MaxAllowed: maxAllowed,
			Message: fmt.Sprintf("Book issued successfully! Due date: %s. Member has %d/%d books issued.",
				decision.DueDate.Format(displayDateLayout), decision.OpenCountAfter, maxAllowed),
		}
		return nil
	})
	if err != nil {
		return reject[model.IssueOutcome](op, err)
	}

	log.Info().
		Int64("record_id", outcome.Record.ID).
		Int64("book_id", req.BookID).
		Int64("member_id", req.MemberID).
		Str("due_date", outcome.Record.DueDate).
		Msg("Book issued")

	return result.Ok(outcome), nil
}

// SearchMember tìm member theo numeric id, nếu không có thì theo university id
func (s *LendingService) SearchMember(ctx context.Context, key string) (result.Result[model.MemberLookup], error) {
	const op = "search member"

	key = strings.TrimSpace(key)
	if key == "" {
		return reject[model.MemberLookup](op,
			apperror.Validation("Please enter a Member ID or University ID.", map[string]any{"q": "cannot be blank"}))
	}

	member, err := s.lookupMember(ctx, key)
	if err != nil {
		return reject[model.MemberLookup](op, err)
	}

	views, err := s.records.ListOpenByMember(ctx, member.ID)
	if err != nil {
		return reject[model.MemberLookup](op, err)
	}

	maxAllowed := s.engine.Rules().MaxOpenIssues
	return result.Ok(model.MemberLookup{
		Member:      member,
		OpenRecords: presentAll(s.engine, views, s.clock.Now()),
		OpenCount:   len(views),
		MaxAllowed:  maxAllowed,
		CanIssue:    len(views) < maxAllowed,
	}), nil
}

func (s *LendingService) lookupMember(ctx context.Context, key string) (*membermodel.Member, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		member, err := s.members.GetByID(ctx, id)
		if err == nil {
			return member, nil
		}
		if !apperror.IsKind(err, apperror.KindNotFound) {
			return nil, err
		}
	}

	member, err := s.members.GetByUniversityID(ctx, key)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.Newf(apperror.KindNotFound, "No member found with ID or University ID %q.", key)
		}
		return nil, err
	}
	return member, nil
}

// ReturnPreview tính fine nếu trả hôm nay, không thay đổi dữ liệu
func (s *LendingService) ReturnPreview(ctx context.Context, id int64) (result.Result[model.ReturnPreview], error) {
	const op = "return preview"

	view, err := s.records.GetView(ctx, id)
	if err != nil {
		return reject[model.ReturnPreview](op, err)
	}
	if !view.IsOpen() {
		return reject[model.ReturnPreview](op,
			apperror.New(apperror.KindAlreadyReturned, "This book has already been returned.").
				WithDetail("return_date", formatDate(*view.ReturnDate)))
	}

	now := s.clock.Now()
	a := s.engine.Assess(view.DueDate, now)
	return result.Ok(model.ReturnPreview{
		Record:      present(s.engine, *view, now),
		ReturnDate:  formatDate(clock.Date(now)),
		IsOverdue:   a.IsOverdue,
		DaysOverdue: a.DaysOverdue,
		Fine:        a.Fine.StringFixed(2),
		FinePerDay:  s.engine.Rules().FinePerDay.StringFixed(2),
	}), nil
}

// Return đóng issue record: set return date, chốt fine, trả sách về kệ
func (s *LendingService) Return(ctx context.Context, id int64, req model.ReturnRequest) (result.Result[model.ReturnOutcome], error) {
	const op = "return book"

	if err := req.Validate(); err != nil {
		return reject[model.ReturnOutcome](op, apperror.FromValidation(err))
	}

	returnDate := clock.Date(s.clock.Now())
	if d, _ := utils.ParseDate(req.ReturnDate); d != nil {
		returnDate = *d
	}

	outcome, err := database.WithTransactionResult(ctx, s.tx, func(ctx context.Context) (model.ReturnOutcome, error) {
		var none model.ReturnOutcome

		record, err := s.records.GetByIDForUpdate(ctx, id)
		if err != nil {
			return none, err
		}

		book, err := s.books.GetByIDForUpdate(ctx, record.BookID)
		if err != nil {
			return none, err
		}

		decision, err := s.engine.DecideReturn(policy.ReturnInput{
			IssueDate:    record.IssueDate,
			DueDate:      record.DueDate,
			ReturnedAt:   record.ReturnDate,
			ReturnDate:   returnDate,
			FinePaid:     req.FinePaid,
			BookQuantity: book.Quantity,
		})
		if err != nil {
			return none, err
		}

		if err := s.records.MarkReturned(ctx, record.ID, decision.ReturnDate, decision.FineAmount, decision.IsFinePaid); err != nil {
			return none, err
		}
		if err := s.books.UpdateQuantity(ctx, book.ID, decision.NewBookQuantity); err != nil {
			return none, err
		}

		view, err := s.records.GetView(ctx, record.ID)
		if err != nil {
			return none, err
		}

		return model.ReturnOutcome{
			Record:   present(s.engine, *view, s.clock.Now()),
			DaysLate: decision.DaysLate,
			Message:  returnMessage(decision),
		}, nil
	})
	if err != nil {
		return reject[model.ReturnOutcome](op, err)
	}

	log.Info().
		Int64("record_id", id).
		Str("return_date", utils.StringValue(outcome.Record.ReturnDate)).
		Int("days_late", outcome.DaysLate).
		Str("fine", outcome.Record.FineAmount).
		Msg("Book returned")

	return result.Ok(outcome), nil
}

func returnMessage(d policy.ReturnDecision) string {
	if !d.FineAmount.IsPositive() {
		return "Book returned successfully on time!"
	}

	status := "Pending"
	if d.IsFinePaid {
		status = "Paid"
	}
	return fmt.Sprintf("Book returned late. Fine: %s. Payment status: %s", d.FineAmount.StringFixed(2), status)
}

// Details trả về record; record còn mở có current fine tính tại thời điểm đọc
func (s *LendingService) Details(ctx context.Context, id int64) (result.Result[model.RecordResponse], error) {
	view, err := s.records.GetView(ctx, id)
	if err != nil {
		return reject[model.RecordResponse]("record details", err)
	}
	return result.Ok(present(s.engine, *view, s.clock.Now())), nil
}

// List - issue records mới nhất trước, filter theo status / member / book
func (s *LendingService) List(ctx context.Context, req model.ListRequest) ([]model.RecordResponse, int, error) {
	status, ok := model.ParseStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !ok {
		return nil, 0, apperror.Validation("Invalid status filter.", map[string]any{
			"status": "must be one of open, returned, overdue",
		})
	}

	now := s.clock.Now()
	views, total, err := s.records.List(ctx, model.ListFilter{
		Status:   status,
		MemberID: req.MemberID,
		BookID:   req.BookID,
		Today:    clock.Date(now),
		Limit:    req.Page.Limit,
		Offset:   req.Page.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}

	return presentAll(s.engine, views, now), total, nil
}
