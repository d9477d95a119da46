package club

import (
	"context"
)

// Repository 读书会仓储接口
type Repository interface {
	// Create 创建读书会
	Create(ctx context.Context, club *Club) error

	// FindByID 根据ID查找读书会,不存在返回ErrClubNotFound
	FindByID(ctx context.Context, id uint) (*Club, error)

	// List 查询所有读书会
	List(ctx context.Context) ([]*Club, error)

	// LockByID 悲观锁查询读书会(用于加入事务)
	LockByID(ctx context.Context, id uint) (*Club, error)

	// UpdateMemberCount 更新当前成员数(原子操作)
	// delta为正数表示加入,负数表示退出
	UpdateMemberCount(ctx context.Context, id uint, delta int) error

	// AddMembership 创建成员关系
	// 唯一索引(club_id, member_id)保证不会重复加入,冲突时返回ErrAlreadyInClub
	AddMembership(ctx context.Context, clubID, memberID uint) error

	// RemoveMembership 删除成员关系,不存在返回ErrNotInClub
	RemoveMembership(ctx context.Context, clubID, memberID uint) error

	// HasMembership 查询成员关系是否存在
	HasMembership(ctx context.Context, clubID, memberID uint) (bool, error)
}
