package loan

import (
	"context"
	"time"
)

// ActiveLoanView 未归还借阅的展示视图
// 借阅列表需要联表展示书名与读者姓名,由仓储层JOIN查询返回,
// 避免应用层N+1查询
type ActiveLoanView struct {
	LoanID     uint
	BookID     uint
	BookTitle  string
	MemberID   uint
	MemberName string
	LoanDate   time.Time
	DueDate    time.Time
}

// Repository 借阅仓储接口
type Repository interface {
	// Create 创建借阅记录(必须在借阅事务内调用)
	Create(ctx context.Context, loan *Loan) error

	// FindByID 根据ID查找借阅记录
	FindByID(ctx context.Context, id uint) (*Loan, error)

	// LockByID 悲观锁查询借阅记录(用于归还事务)
	// 并发的重复归还必须在行锁上串行化,第二个事务读到已关闭状态
	LockByID(ctx context.Context, id uint) (*Loan, error)

	// Update 更新借阅记录(写入归还日期)
	Update(ctx context.Context, loan *Loan) error

	// ListActive 查询所有未归还借阅,按应还日期升序(最紧迫的在前)
	// 普通快照读,不加锁,可与借还事务并发执行
	ListActive(ctx context.Context) ([]*ActiveLoanView, error)

	// ListOverdue 查询已逾期的未归还借阅(应还日期早于today),排序同ListActive
	ListOverdue(ctx context.Context, today time.Time) ([]*ActiveLoanView, error)

	// CountActiveByMember 查询读者当前未归还借阅数(校验冗余计数时使用)
	CountActiveByMember(ctx context.Context, memberID uint) (int64, error)
}
