package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "library-backend/internal/domains/book/model"
	bookrepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/lending/model"
	"library-backend/internal/domains/lending/policy"
	"library-backend/internal/domains/lending/repository"
	membermodel "library-backend/internal/domains/member/model"
	memberrepo "library-backend/internal/domains/member/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/testutil/pgtest"
	"library-backend/pkg/database"
)

type movableClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *movableClock) set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type pgFixture struct {
	svc     ServiceInterface
	books   bookrepo.RepositoryInterface
	members memberrepo.RepositoryInterface
	clock   *movableClock
}

func newPgFixture(t *testing.T) *pgFixture {
	pool := pgtest.Pool(t)
	clk := &movableClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	books := bookrepo.NewPostgresRepository(pool)
	members := memberrepo.NewPostgresRepository(pool)

	svc := NewService(
		database.NewTransactor(pool),
		repository.NewPostgresRepository(pool),
		books,
		members,
		policy.NewEngine(policy.DefaultRules()),
		clk,
	)
	return &pgFixture{svc: svc, books: books, members: members, clock: clk}
}

func (f *pgFixture) book(t *testing.T, quantity int) *bookmodel.Book {
	b := &bookmodel.Book{Title: "Go in Practice", Author: "Butcher", Quantity: quantity}
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *pgFixture) member(t *testing.T, email string) *membermodel.Member {
	m := &membermodel.Member{Name: "Member " + email, Email: email}
	require.NoError(t, f.members.Create(context.Background(), m))
	return m
}

func TestPostgresIssueAndLateReturn(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()
	b := f.book(t, 2)
	m := f.member(t, "an@uni.edu")

	issued, err := f.svc.Issue(ctx, model.IssueRequest{BookID: b.ID, MemberID: m.ID})
	require.NoError(t, err)
	require.True(t, issued.Success, issued.ErrorMessage)
	assert.Equal(t, 1, issued.Data.OpenCount)

	stored, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Quantity)

	// due 2024-01-15, trả 2024-01-20 -> trễ 5 ngày
	f.clock.set(time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC))
	returned, err := f.svc.Return(ctx, issued.Data.Record.ID, model.ReturnRequest{})
	require.NoError(t, err)
	require.True(t, returned.Success, returned.ErrorMessage)
	assert.Equal(t, 5, returned.Data.DaysLate)
	assert.Equal(t, "25.00", returned.Data.Record.FineAmount)
	assert.False(t, returned.Data.Record.IsFinePaid)

	stored, err = f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Quantity)

	again, err := f.svc.Return(ctx, issued.Data.Record.ID, model.ReturnRequest{})
	require.NoError(t, err)
	assert.Equal(t, apperror.KindAlreadyReturned, again.ErrorKind)
}

func TestPostgresConcurrentIssueOfLastCopy(t *testing.T) {
	f := newPgFixture(t)
	b := f.book(t, 1)
	members := []*membermodel.Member{f.member(t, "a@uni.edu"), f.member(t, "b@uni.edu")}

	var wg sync.WaitGroup
	kinds := make([]apperror.Kind, len(members))
	successes := make([]bool, len(members))
	for i, m := range members {
		wg.Add(1)
		go func(i int, memberID int64) {
			defer wg.Done()
			r, err := f.svc.Issue(context.Background(), model.IssueRequest{BookID: b.ID, MemberID: memberID})
			assert.NoError(t, err)
			successes[i], kinds[i] = r.Success, r.ErrorKind
		}(i, m.ID)
	}
	wg.Wait()

	assert.ElementsMatch(t, []bool{true, false}, successes)
	assert.Contains(t, kinds, apperror.KindBookUnavailable)

	stored, err := f.books.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}
