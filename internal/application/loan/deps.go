package loan

import (
	"context"
	"time"
)

// TxManager 事务管理器接口
// 借还工作流的全部读写必须在同一个数据库事务内执行,
// fn返回error时回滚,返回nil时提交
// 具体实现在infrastructure/persistence/mysql层,
// 定义接口是为了单元测试时注入内存实现
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 领域事件发布接口(*mq.Publisher实现)
// 事件在事务提交之后发布:发布失败只记日志,已提交的借还结果不受影响
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// 事件路由键
const (
	EventLoanCheckedOut = "loan.checked_out"
	EventLoanReturned   = "loan.returned"
)

// LoanCheckedOutEvent 借出事件载荷
type LoanCheckedOutEvent struct {
	LoanID   uint      `json:"loan_id"`
	BookID   uint      `json:"book_id"`
	MemberID uint      `json:"member_id"`
	LoanDate time.Time `json:"loan_date"`
	DueDate  time.Time `json:"due_date"`
}

// LoanReturnedEvent 归还事件载荷
type LoanReturnedEvent struct {
	LoanID     uint      `json:"loan_id"`
	BookID     uint      `json:"book_id"`
	MemberID   uint      `json:"member_id"`
	ReturnDate time.Time `json:"return_date"`
	Fine       int64     `json:"fine"` // 罚款金额(分),0表示按时归还
}
