package loan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/smartlibrary/internal/domain/loan"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

func newReturnUseCase(f *fixture, now time.Time) *ReturnUseCase {
	uc := NewReturnUseCase(
		f.loanRepo,
		f.bookRepo,
		f.memberRepo,
		loan.NewFinePolicy(50),
		f.tx,
		f.events,
	)
	uc.nowFunc = fixedClock(now)
	return uc
}

// addActiveLoan 直接写入一条未归还借阅记录
func (f *fixture) addActiveLoan(id, bookID, memberID uint, loanDate, dueDate time.Time) {
	f.store.loans[id] = &loan.Loan{
		ID:       id,
		BookID:   bookID,
		MemberID: memberID,
		LoanDate: loanDate,
		DueDate:  dueDate,
	}
	if id >= f.store.nextLoanID {
		f.store.nextLoanID = id + 1
	}
}

func TestReturn_OnTime(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 2)
	f.addMember(10, "张伟", 1)
	f.addActiveLoan(5, 1, 10, date(2024, 3, 1), date(2024, 3, 8))

	uc := newReturnUseCase(f, date(2024, 3, 8)) // 应还日当天归还

	resp, err := uc.Execute(context.Background(), ReturnRequest{LoanID: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.Fine)
	assert.Equal(t, "0.00", resp.FineYuan)
	assert.Equal(t, "2024-03-08", resp.ReturnDate)

	// 副本回架,读者借阅数-1,记录关闭
	assert.Equal(t, 3, f.store.books[1].AvailableCopies)
	assert.Equal(t, 0, f.store.members[10].CurrentLoans)
	assert.False(t, f.store.loans[5].IsActive())

	require.Len(t, f.events.events, 1)
	assert.Equal(t, EventLoanReturned, f.events.events[0].routingKey)
	event := f.events.events[0].message.(LoanReturnedEvent)
	assert.Equal(t, int64(0), event.Fine)
}

func TestReturn_Overdue(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 2)
	f.addMember(10, "张伟", 1)
	f.addActiveLoan(5, 1, 10, date(2024, 1, 1), date(2024, 1, 8))

	uc := newReturnUseCase(f, date(2024, 1, 11)) // 逾期3天

	resp, err := uc.Execute(context.Background(), ReturnRequest{LoanID: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(150), resp.Fine) // 3天 × 0.50元
	assert.Equal(t, "1.50", resp.FineYuan)

	// 逾期不阻塞归还,副本照常回架
	assert.Equal(t, 3, f.store.books[1].AvailableCopies)

	event := f.events.events[0].message.(LoanReturnedEvent)
	assert.Equal(t, int64(150), event.Fine)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 2)
	f.addMember(10, "张伟", 1)
	f.addActiveLoan(5, 1, 10, date(2024, 3, 1), date(2024, 3, 8))

	uc := newReturnUseCase(f, date(2024, 3, 5))

	_, err := uc.Execute(context.Background(), ReturnRequest{LoanID: 5})
	require.NoError(t, err)

	// 重复归还被拒绝,且不会再次回架
	_, err = uc.Execute(context.Background(), ReturnRequest{LoanID: 5})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAlreadyReturned, apperrors.GetAppError(err).Code)

	assert.Equal(t, 3, f.store.books[1].AvailableCopies)
	assert.Equal(t, 0, f.store.members[10].CurrentLoans)
	assert.Len(t, f.events.events, 1) // 只有第一次归还发布了事件
}

func TestReturn_LoanNotFound(t *testing.T) {
	f := newFixture()
	uc := newReturnUseCase(f, date(2024, 3, 5))

	_, err := uc.Execute(context.Background(), ReturnRequest{LoanID: 99})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLoanNotFound, apperrors.GetAppError(err).Code)
}

// TestReturn_RollbackOnOverCapacity 台账异常时整个归还回滚
// 正常流程不可达:借阅记录存在意味着副本曾被借出,
// 回架不可能超出馆藏总数;此处人为构造异常数据验证原子性
func TestReturn_RollbackOnOverCapacity(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 3) // 全部在架,与未归还记录矛盾
	f.addMember(10, "张伟", 1)
	f.addActiveLoan(5, 1, 10, date(2024, 3, 1), date(2024, 3, 8))

	uc := newReturnUseCase(f, date(2024, 3, 5))

	_, err := uc.Execute(context.Background(), ReturnRequest{LoanID: 5})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeOverCapacity, apperrors.GetAppError(err).Code)

	// 借阅记录仍为未归还,读者计数未变
	assert.True(t, f.store.loans[5].IsActive())
	assert.Equal(t, 1, f.store.members[10].CurrentLoans)
	assert.Empty(t, f.events.events)
}
