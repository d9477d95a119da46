package user

import (
	"time"
)

// 用户角色
const (
	RoleLibrarian = "librarian" // 馆员:图书编目、借还操作、逾期查询
	RoleMember    = "member"    // 读者:查询馆藏、查看个人借阅
)

// User 用户实体(聚合根)
// DDD设计说明:
// 1. User只负责登录身份与角色,借阅资格归Member聚合
// 2. 密码以bcrypt哈希存储,实体不提供明文访问方法
// 3. 领域实体不依赖GORM tag(infrastructure层做映射)
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Role      string // librarian或member
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname, role string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsLibrarian 是否馆员
func (u *User) IsLibrarian() bool {
	return u.Role == RoleLibrarian
}

// UpdateNickname 更新昵称(领域行为)
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
