package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestNewLoan 新建借阅记录
func TestNewLoan(t *testing.T) {
	l := NewLoan(7, 4, date(2024, 1, 1), 7)

	assert.Equal(t, uint(7), l.BookID)
	assert.Equal(t, uint(4), l.MemberID)
	assert.Equal(t, date(2024, 1, 1), l.LoanDate)
	assert.Equal(t, date(2024, 1, 8), l.DueDate, "应还日期 = 借出日期 + 7天")
	assert.True(t, l.IsActive())
	assert.Nil(t, l.ReturnDate)
}

// TestNewLoan_TruncatesTime 借出日期截断到日历日
func TestNewLoan_TruncatesTime(t *testing.T) {
	loanedAt := time.Date(2024, 1, 1, 15, 30, 45, 0, time.UTC)
	l := NewLoan(7, 4, loanedAt, 7)

	assert.Equal(t, date(2024, 1, 1), l.LoanDate)
	assert.Equal(t, date(2024, 1, 8), l.DueDate)
}

// TestNewLoan_DefaultPeriod 非法期限回退到默认值
func TestNewLoan_DefaultPeriod(t *testing.T) {
	l := NewLoan(7, 4, date(2024, 1, 1), 0)

	assert.Equal(t, date(2024, 1, 1+DefaultPeriodDays), l.DueDate)
}

// TestLoan_Close 归还状态转换
func TestLoan_Close(t *testing.T) {
	l := NewLoan(7, 4, date(2024, 1, 1), 7)

	err := l.Close(date(2024, 1, 5))

	require.NoError(t, err)
	assert.False(t, l.IsActive())
	require.NotNil(t, l.ReturnDate)
	assert.Equal(t, date(2024, 1, 5), *l.ReturnDate)
}

// TestLoan_CloseTwice 重复归还:第二次失败且状态不变(幂等性保证)
func TestLoan_CloseTwice(t *testing.T) {
	l := NewLoan(7, 4, date(2024, 1, 1), 7)
	require.NoError(t, l.Close(date(2024, 1, 5)))

	err := l.Close(date(2024, 1, 6))

	assert.ErrorIs(t, err, ErrAlreadyReturned)
	assert.Equal(t, date(2024, 1, 5), *l.ReturnDate, "归还日期一经写入不再变更")
}

// TestLoan_IsOverdue 逾期判断
func TestLoan_IsOverdue(t *testing.T) {
	l := NewLoan(7, 4, date(2024, 1, 1), 7) // 应还日期 2024-01-08

	tests := []struct {
		name  string
		today time.Time
		want  bool
	}{
		{"应还日之前未逾期", date(2024, 1, 5), false},
		{"应还日当天未逾期", date(2024, 1, 8), false},
		{"应还日次日逾期", date(2024, 1, 9), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.IsOverdue(tt.today))
		})
	}
}

// TestLoan_ClosedNeverOverdue 已归还的记录不算逾期
func TestLoan_ClosedNeverOverdue(t *testing.T) {
	l := NewLoan(7, 4, date(2024, 1, 1), 7)
	require.NoError(t, l.Close(date(2024, 1, 20)))

	assert.False(t, l.IsOverdue(date(2024, 2, 1)))
}
