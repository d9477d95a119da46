package member

import (
	"context"
)

// Repository 读者仓储接口
type Repository interface {
	// Create 创建读者
	Create(ctx context.Context, member *Member) error

	// FindByID 根据ID查找读者
	FindByID(ctx context.Context, id uint) (*Member, error)

	// FindByUserID 根据登录用户ID查找读者
	FindByUserID(ctx context.Context, userID uint) (*Member, error)

	// LockByID 悲观锁查询读者(用于借还事务)
	// 借阅上限检查与计数变更必须在同一把行锁内完成,
	// 否则并发借阅可能同时通过检查导致超限
	LockByID(ctx context.Context, id uint) (*Member, error)

	// UpdateLoanCount 更新当前借阅数(原子操作)
	// delta为正数表示借出,负数表示归还;SQL层保证计数不会降到0以下
	UpdateLoanCount(ctx context.Context, id uint, delta int) error
}
