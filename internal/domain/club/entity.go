package club

import (
	"time"
)

// Club 读书会实体(聚合根)
// 业务规则:
// 1. CurrentMembers是当前成员数冗余计数,加入+1、退出-1,
//    由应用层在事务内维护,不变式 0 <= CurrentMembers <= MaxMembers
// 2. 容量检查与计数变更必须在同一事务的行锁内完成,
//    与图书副本账本是同一套并发控制手法
type Club struct {
	ID             uint
	Name           string
	Description    string
	MaxMembers     int // 成员人数上限
	CurrentMembers int // 当前成员数
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewClub 创建新读书会(工厂方法)
func NewClub(name, description string, maxMembers int) *Club {
	now := time.Now()
	return &Club{
		Name:           name,
		Description:    description,
		MaxMembers:     maxMembers,
		CurrentMembers: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// HasVacancy 是否还有空位
func (c *Club) HasVacancy() bool {
	return c.CurrentMembers < c.MaxMembers
}

// Membership 读书会成员关系
type Membership struct {
	ID       uint
	ClubID   uint
	MemberID uint
	JoinedAt time.Time
}
