package member

import (
	"time"
)

// Member 读者实体(聚合根)
// DDD设计说明:
// 1. Member与User是一对一关系:User负责登录身份,Member负责借阅资格
// 2. CurrentLoans是当前未归还的借阅数,借出+1、归还-1,
//    由借阅工作流在事务内维护,不变式 0 <= CurrentLoans <= 借阅上限
// 3. 名字冗余自User,列表展示时避免跨表查询
type Member struct {
	ID           uint
	UserID       uint   // 关联的登录用户ID
	Name         string // 读者姓名
	CurrentLoans int    // 当前未归还借阅数
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewMember 创建新读者(工厂方法)
func NewMember(userID uint, name string) *Member {
	now := time.Now()
	return &Member{
		UserID:       userID,
		Name:         name,
		CurrentLoans: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
