package service

import (
	"context"
	"errors"
	"maps"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/lending/model"
	membermodel "library-backend/internal/domains/member/model"
	"library-backend/internal/shared/apperror"
)

// store là database in-memory; fakeTx khôi phục snapshot khi fn trả error
type store struct {
	books        map[int64]bookmodel.Book
	members      map[int64]membermodel.Member
	records      map[int64]model.IssueRecord
	nextRecordID int64

	failCreate error
}

func newStore() *store {
	return &store{
		books:   map[int64]bookmodel.Book{},
		members: map[int64]membermodel.Member{},
		records: map[int64]model.IssueRecord{},
	}
}

type snapshot struct {
	books        map[int64]bookmodel.Book
	members      map[int64]membermodel.Member
	records      map[int64]model.IssueRecord
	nextRecordID int64
}

func (s *store) snapshot() snapshot {
	return snapshot{maps.Clone(s.books), maps.Clone(s.members), maps.Clone(s.records), s.nextRecordID}
}

func (s *store) restore(snap snapshot) {
	s.books, s.members, s.records, s.nextRecordID = snap.books, snap.members, snap.records, snap.nextRecordID
}

func (s *store) addBook(id int64, title string, quantity int) {
	s.books[id] = bookmodel.Book{ID: id, Title: title, Author: "Author " + title, Quantity: quantity}
}

func (s *store) addMember(id int64, name string, universityID *string) {
	s.members[id] = membermodel.Member{ID: id, Name: name, Email: name + "@uni.edu", UniversityID: universityID}
}

func (s *store) addOpenRecord(bookID, memberID int64, issue, due time.Time) int64 {
	s.nextRecordID++
	s.records[s.nextRecordID] = model.IssueRecord{
		ID: s.nextRecordID, BookID: bookID, MemberID: memberID,
		IssueDate: issue, DueDate: due, FineAmount: decimal.Zero,
	}
	return s.nextRecordID
}

func (s *store) openCount(memberID int64) int {
	n := 0
	for _, r := range s.records {
		if r.MemberID == memberID && r.IsOpen() {
			n++
		}
	}
	return n
}

type fakeTx struct {
	s         *store
	commits   int
	rollbacks int
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.s.snapshot()
	if err := fn(ctx); err != nil {
		t.s.restore(snap)
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

type bookRepo struct{ s *store }

func (r bookRepo) GetByIDForUpdate(_ context.Context, id int64) (*bookmodel.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return nil, apperror.NotFound("Book", id)
	}
	return &b, nil
}

func (r bookRepo) UpdateQuantity(_ context.Context, id int64, quantity int) error {
	b, ok := r.s.books[id]
	if !ok {
		return apperror.NotFound("Book", id)
	}
	if quantity < 0 {
		return errors.New("check constraint books_quantity_non_negative")
	}
	b.Quantity = quantity
	r.s.books[id] = b
	return nil
}

type memberRepo struct{ s *store }

func (r memberRepo) GetByID(_ context.Context, id int64) (*membermodel.Member, error) {
	m, ok := r.s.members[id]
	if !ok {
		return nil, apperror.NotFound("Member", id)
	}
	return &m, nil
}

func (r memberRepo) GetByIDForUpdate(ctx context.Context, id int64) (*membermodel.Member, error) {
	return r.GetByID(ctx, id)
}

func (r memberRepo) GetByUniversityID(_ context.Context, uid string) (*membermodel.Member, error) {
	for _, m := range r.s.members {
		if m.UniversityID != nil && *m.UniversityID == uid {
			return &m, nil
		}
	}
	return nil, apperror.Newf(apperror.KindNotFound, "Member with university id %q not found", uid)
}

type recordRepo struct{ s *store }

func (r recordRepo) Create(_ context.Context, rec *model.IssueRecord) error {
	if r.s.failCreate != nil {
		return r.s.failCreate
	}
	r.s.nextRecordID++
	rec.ID = r.s.nextRecordID
	r.s.records[rec.ID] = *rec
	return nil
}

func (r recordRepo) GetByIDForUpdate(_ context.Context, id int64) (*model.IssueRecord, error) {
	rec, ok := r.s.records[id]
	if !ok {
		return nil, apperror.NotFound("Issue record", id)
	}
	return &rec, nil
}

func (r recordRepo) view(rec model.IssueRecord) model.IssueRecordView {
	b, m := r.s.books[rec.BookID], r.s.members[rec.MemberID]
	return model.IssueRecordView{
		IssueRecord: rec, BookTitle: b.Title, BookAuthor: b.Author,
		MemberName: m.Name, MemberUniversityID: m.UniversityID,
	}
}

func (r recordRepo) GetView(_ context.Context, id int64) (*model.IssueRecordView, error) {
	rec, ok := r.s.records[id]
	if !ok {
		return nil, apperror.NotFound("Issue record", id)
	}
	v := r.view(rec)
	return &v, nil
}

func (r recordRepo) CountOpenByMember(_ context.Context, memberID int64) (int, error) {
	return r.s.openCount(memberID), nil
}

func (r recordRepo) sorted(keep func(model.IssueRecord) bool) []model.IssueRecordView {
	out := []model.IssueRecordView{}
	for _, rec := range r.s.records {
		if keep(rec) {
			out = append(out, r.view(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r recordRepo) ListOpenByMember(_ context.Context, memberID int64) ([]model.IssueRecordView, error) {
	return r.sorted(func(rec model.IssueRecord) bool { return rec.MemberID == memberID && rec.IsOpen() }), nil
}

func (r recordRepo) List(_ context.Context, f model.ListFilter) ([]model.IssueRecordView, int, error) {
	all := r.sorted(func(rec model.IssueRecord) bool {
		switch f.Status {
		case model.StatusOpen:
			if !rec.IsOpen() {
				return false
			}
		case model.StatusReturned:
			if rec.IsOpen() {
				return false
			}
		case model.StatusOverdue:
			if !rec.IsOpen() || !rec.DueDate.Before(f.Today) {
				return false
			}
		}
		if f.MemberID != nil && rec.MemberID != *f.MemberID {
			return false
		}
		if f.BookID != nil && rec.BookID != *f.BookID {
			return false
		}
		return true
	})

	total := len(all)
	if f.Offset >= total {
		return []model.IssueRecordView{}, total, nil
	}
	return all[f.Offset:min(f.Offset+f.Limit, total)], total, nil
}

func (r recordRepo) MarkReturned(_ context.Context, id int64, returnDate time.Time, fine decimal.Decimal, paid bool) error {
	rec, ok := r.s.records[id]
	if !ok {
		return apperror.NotFound("Issue record", id)
	}
	if !rec.IsOpen() {
		return apperror.New(apperror.KindAlreadyReturned, "This book has already been returned.")
	}
	rec.ReturnDate = &returnDate
	rec.FineAmount = fine
	rec.IsFinePaid = paid
	r.s.records[id] = rec
	return nil
}
