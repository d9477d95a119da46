package book

import (
	"context"
)

// Ledger 可借副本台账
// 设计说明:
// 1. 封装AvailableCopies的全部变更入口,借/还之外的代码不得直接改计数
// 2. 上界下界都做校验:借出时副本数不足返回ErrNoCopiesAvailable;
//    归还时超出馆藏总数返回ErrOverCapacity(防御性检查,正常流程不可达,
//    但必须检查而不是假设)
// 3. 必须在事务内调用:调用前借还流程已通过LockByID锁定图书行,
//    检查与变更之间不会被并发事务插入
type Ledger struct {
	repo Repository
}

// NewLedger 创建台账
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Decrement 借出一册,可借副本数-1
// 副本数已为0时返回ErrNoCopiesAvailable
func (l *Ledger) Decrement(ctx context.Context, bookID uint) error {
	b, err := l.repo.LockByID(ctx, bookID)
	if err != nil {
		return err
	}

	if !b.HasAvailableCopy() {
		return ErrNoCopiesAvailable
	}

	// SQL层还有同样的边界守卫,双重保险
	return l.repo.UpdateAvailable(ctx, bookID, -1)
}

// Increment 归还一册,可借副本数+1
// 归还后将超出馆藏总数时返回ErrOverCapacity
func (l *Ledger) Increment(ctx context.Context, bookID uint) error {
	b, err := l.repo.LockByID(ctx, bookID)
	if err != nil {
		return err
	}

	if b.AllCopiesOnShelf() {
		return ErrOverCapacity
	}

	return l.repo.UpdateAvailable(ctx, bookID, +1)
}
