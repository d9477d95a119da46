package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(用于借还事务)
	// 使用SELECT FOR UPDATE锁定行,借阅的前置检查与计数变更必须串行化
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateAvailable 更新在馆可借副本数(原子操作)
	// delta为正数表示归还入馆,负数表示借出
	// SQL层保证 0 <= available_copies + delta <= total_copies,
	// 越界时按原因返回ErrNoCopiesAvailable或ErrOverCapacity
	UpdateAvailable(ctx context.Context, id uint, delta int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页大小
	Keyword  string // 搜索关键词(书名/作者/出版社)
	SortBy   string // 排序方式: title_asc | year_desc | created_at_desc
}
