package loan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/smartlibrary/internal/domain/loan"
)

func newListLoansUseCase(f *fixture, now time.Time) *ListLoansUseCase {
	uc := NewListLoansUseCase(f.loanRepo, loan.NewFinePolicy(50))
	uc.nowFunc = fixedClock(now)
	return uc
}

func TestListActive(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 1)
	f.addBook(2, "数据库系统概念", 2, 1)
	f.addMember(10, "张伟", 2)
	// 第二条应还日期更早,列表按紧迫程度排在前面
	f.addActiveLoan(5, 1, 10, date(2024, 3, 1), date(2024, 3, 8))
	f.addActiveLoan(6, 2, 10, date(2024, 2, 20), date(2024, 2, 27))

	uc := newListLoansUseCase(f, date(2024, 3, 1))

	items, err := uc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// 按应还日期升序
	assert.Equal(t, uint(6), items[0].LoanID)
	assert.Equal(t, "数据库系统概念", items[0].BookTitle)
	assert.Equal(t, "张伟", items[0].MemberName)
	assert.True(t, items[0].Overdue)
	assert.Equal(t, 3, items[0].DaysOverdue)       // 2024-02-27到2024-03-01
	assert.Equal(t, int64(150), items[0].AccruedFine)

	assert.Equal(t, uint(5), items[1].LoanID)
	assert.False(t, items[1].Overdue)
	assert.Equal(t, 0, items[1].DaysOverdue)
	assert.Equal(t, int64(0), items[1].AccruedFine)
}

func TestListActive_ExcludesReturned(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 2)
	f.addMember(10, "张伟", 1)
	f.addActiveLoan(5, 1, 10, date(2024, 3, 1), date(2024, 3, 8))

	rd := date(2024, 3, 2)
	f.store.loans[7] = &loan.Loan{
		ID: 7, BookID: 1, MemberID: 10,
		LoanDate: date(2024, 2, 20), DueDate: date(2024, 2, 27),
		ReturnDate: &rd,
	}

	uc := newListLoansUseCase(f, date(2024, 3, 1))

	items, err := uc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(5), items[0].LoanID)
}

func TestListOverdue(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 1)
	f.addBook(2, "数据库系统概念", 2, 1)
	f.addMember(10, "张伟", 2)
	f.addActiveLoan(5, 1, 10, date(2024, 3, 1), date(2024, 3, 8))  // 未逾期
	f.addActiveLoan(6, 2, 10, date(2024, 2, 20), date(2024, 2, 27)) // 逾期

	uc := newListLoansUseCase(f, date(2024, 3, 1))

	items, err := uc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(6), items[0].LoanID)
	assert.Equal(t, 3, items[0].DaysOverdue)
}

func TestListOverdue_OnDueDateNotOverdue(t *testing.T) {
	f := newFixture()
	f.addBook(1, "Go语言实战", 3, 2)
	f.addMember(10, "张伟", 1)
	f.addActiveLoan(5, 1, 10, date(2024, 3, 1), date(2024, 3, 8))

	// 应还日当天还不算逾期
	uc := newListLoansUseCase(f, date(2024, 3, 8))

	items, err := uc.ListOverdue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
