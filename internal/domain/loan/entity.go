package loan

import (
	"time"
)

// DefaultPeriodDays 默认借阅期限(天)
// 可通过配置loan.loan_period_days覆盖
const DefaultPeriodDays = 7

// Loan 借阅记录实体(聚合根)
// 状态机:
//
//	Active {ReturnDate == nil} --Close()--> Closed {ReturnDate != nil}
//
// Closed是终态:不允许重新打开,归还日期一经写入不再变更,
// 已关闭的借阅记录也不允许删除(馆务审计要求)
// 设计说明:
// 1. 不直接持有Book/Member对象,只保存ID(避免跨聚合引用)
// 2. 日期只取日历日,时分秒在工厂方法中截断
type Loan struct {
	ID         uint
	BookID     uint       // 图书ID
	MemberID   uint       // 读者ID
	LoanDate   time.Time  // 借出日期
	DueDate    time.Time  // 应还日期 = 借出日期 + 借阅期限
	ReturnDate *time.Time // 归还日期(nil表示未归还)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLoan 创建新借阅记录(工厂方法)
// periodDays<=0时回退到默认借阅期限
func NewLoan(bookID, memberID uint, loanDate time.Time, periodDays int) *Loan {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}

	day := truncateToDay(loanDate)
	now := time.Now()
	return &Loan{
		BookID:    bookID,
		MemberID:  memberID,
		LoanDate:  day,
		DueDate:   day.AddDate(0, 0, periodDays),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive 是否未归还
func (l *Loan) IsActive() bool {
	return l.ReturnDate == nil
}

// IsOverdue 是否逾期(未归还且已过应还日期)
func (l *Loan) IsOverdue(today time.Time) bool {
	return l.IsActive() && l.DueDate.Before(truncateToDay(today))
}

// Close 归还(状态转换 Active -> Closed)
// 业务规则:
// 1. 已关闭的记录再次归还返回ErrAlreadyReturned,状态不变
// 2. 归还日期截断到日历日
func (l *Loan) Close(returnedAt time.Time) error {
	if !l.IsActive() {
		return ErrAlreadyReturned
	}

	day := truncateToDay(returnedAt)
	l.ReturnDate = &day
	l.UpdatedAt = time.Now()
	return nil
}

// truncateToDay 截断到日历日(UTC 00:00)
// 罚款与逾期判断都按日历日差值计算,不按24小时间隔
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
