package loan

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/smartlibrary/internal/domain/book"
	"github.com/xiebiao/smartlibrary/internal/domain/loan"
	"github.com/xiebiao/smartlibrary/internal/domain/member"
)

// store 内存数据库,借还用例测试的共享状态
type store struct {
	books      map[uint]*book.Book
	members    map[uint]*member.Member
	loans      map[uint]*loan.Loan
	nextLoanID uint
}

func newStore() *store {
	return &store{
		books:      make(map[uint]*book.Book),
		members:    make(map[uint]*member.Member),
		loans:      make(map[uint]*loan.Loan),
		nextLoanID: 1,
	}
}

// snapshot 深拷贝全部状态,事务回滚时恢复
func (s *store) snapshot() *store {
	snap := newStore()
	snap.nextLoanID = s.nextLoanID
	for id, b := range s.books {
		cp := *b
		snap.books[id] = &cp
	}
	for id, m := range s.members {
		cp := *m
		snap.members[id] = &cp
	}
	for id, l := range s.loans {
		cp := *l
		if l.ReturnDate != nil {
			rd := *l.ReturnDate
			cp.ReturnDate = &rd
		}
		snap.loans[id] = &cp
	}
	return snap
}

func (s *store) restore(snap *store) {
	s.books = snap.books
	s.members = snap.members
	s.loans = snap.loans
	s.nextLoanID = snap.nextLoanID
}

// fakeTxManager 模拟事务:fn失败时恢复快照,验证"要么全成功要么全失败"
type fakeTxManager struct {
	s *store
}

func (tx *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := tx.s.snapshot()
	if err := fn(ctx); err != nil {
		tx.s.restore(snap)
		return err
	}
	return nil
}

// fakeBookRepo 图书仓储内存实现
type fakeBookRepo struct {
	s *store
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.s.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := r.s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	for _, b := range r.s.books {
		if b.ISBN == isbn {
			cp := *b
			return &cp, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.s.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	delete(r.s.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var books []*book.Book
	for _, b := range r.s.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, int64(len(books)), nil
}

func (r *fakeBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookRepo) UpdateAvailable(ctx context.Context, id uint, delta int) error {
	b, ok := r.s.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	next := b.AvailableCopies + delta
	if next < 0 {
		return book.ErrNoCopiesAvailable
	}
	if next > b.TotalCopies {
		return book.ErrOverCapacity
	}
	b.AvailableCopies = next
	return nil
}

// fakeMemberRepo 读者仓储内存实现
type fakeMemberRepo struct {
	s *store
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *member.Member) error {
	r.s.members[m.ID] = m
	return nil
}

func (r *fakeMemberRepo) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	m, ok := r.s.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) FindByUserID(ctx context.Context, userID uint) (*member.Member, error) {
	for _, m := range r.s.members {
		if m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, member.ErrMemberNotFound
}

func (r *fakeMemberRepo) LockByID(ctx context.Context, id uint) (*member.Member, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeMemberRepo) UpdateLoanCount(ctx context.Context, id uint, delta int) error {
	m, ok := r.s.members[id]
	if !ok {
		return member.ErrMemberNotFound
	}
	m.CurrentLoans += delta
	return nil
}

// fakeLoanRepo 借阅仓储内存实现
type fakeLoanRepo struct {
	s *store
}

func (r *fakeLoanRepo) Create(ctx context.Context, l *loan.Loan) error {
	l.ID = r.s.nextLoanID
	r.s.nextLoanID++
	cp := *l
	r.s.loans[l.ID] = &cp
	return nil
}

func (r *fakeLoanRepo) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	l, ok := r.s.loans[id]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLoanRepo) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLoanRepo) Update(ctx context.Context, l *loan.Loan) error {
	cp := *l
	r.s.loans[l.ID] = &cp
	return nil
}

func (r *fakeLoanRepo) ListActive(ctx context.Context) ([]*loan.ActiveLoanView, error) {
	var views []*loan.ActiveLoanView
	for _, l := range r.s.loans {
		if !l.IsActive() {
			continue
		}
		views = append(views, r.toView(l))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].DueDate.Before(views[j].DueDate) })
	return views, nil
}

func (r *fakeLoanRepo) ListOverdue(ctx context.Context, today time.Time) ([]*loan.ActiveLoanView, error) {
	all, _ := r.ListActive(ctx)
	var views []*loan.ActiveLoanView
	for _, v := range all {
		if loan.OverdueDays(v.DueDate, today) > 0 {
			views = append(views, v)
		}
	}
	return views, nil
}

func (r *fakeLoanRepo) CountActiveByMember(ctx context.Context, memberID uint) (int64, error) {
	var n int64
	for _, l := range r.s.loans {
		if l.MemberID == memberID && l.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *fakeLoanRepo) toView(l *loan.Loan) *loan.ActiveLoanView {
	v := &loan.ActiveLoanView{
		LoanID:   l.ID,
		BookID:   l.BookID,
		MemberID: l.MemberID,
		LoanDate: l.LoanDate,
		DueDate:  l.DueDate,
	}
	if b, ok := r.s.books[l.BookID]; ok {
		v.BookTitle = b.Title
	}
	if m, ok := r.s.members[l.MemberID]; ok {
		v.MemberName = m.Name
	}
	return v
}

// capturedEvent 记录发布的事件
type capturedEvent struct {
	routingKey string
	message    interface{}
}

// fakePublisher 事件发布内存实现
type fakePublisher struct {
	events []capturedEvent
}

func (p *fakePublisher) Publish(routingKey string, message interface{}) error {
	p.events = append(p.events, capturedEvent{routingKey: routingKey, message: message})
	return nil
}

// fixture 借还用例测试环境
type fixture struct {
	store      *store
	bookRepo   *fakeBookRepo
	memberRepo *fakeMemberRepo
	loanRepo   *fakeLoanRepo
	tx         *fakeTxManager
	events     *fakePublisher
}

func newFixture() *fixture {
	s := newStore()
	return &fixture{
		store:      s,
		bookRepo:   &fakeBookRepo{s: s},
		memberRepo: &fakeMemberRepo{s: s},
		loanRepo:   &fakeLoanRepo{s: s},
		tx:         &fakeTxManager{s: s},
		events:     &fakePublisher{},
	}
}

// addBook 添加馆藏图书
func (f *fixture) addBook(id uint, title string, total, available int) {
	f.store.books[id] = &book.Book{
		ID:              id,
		ISBN:            "978-7-115-54608-1",
		Title:           title,
		TotalCopies:     total,
		AvailableCopies: available,
	}
}

// addMember 添加读者
func (f *fixture) addMember(id uint, name string, currentLoans int) {
	f.store.members[id] = &member.Member{
		ID:           id,
		UserID:       id,
		Name:         name,
		CurrentLoans: currentLoans,
	}
}

// date 构造固定日期(UTC)
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixedClock 固定时钟
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
