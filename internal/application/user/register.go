package user

import (
	"context"

	"github.com/xiebiao/smartlibrary/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 设计说明:
// 1. Application层负责用例编排,协调多个领域服务
// 2. 注册为读者(办借书证)是独立的用例,见application/member
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname, req.Role)
	if err != nil {
		return nil, err
	}

	// 领域实体 → 应用层DTO,领域模型变更不影响API契约
	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Role:     u.Role,
	}, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
	Role     string // librarian | member,空值默认member
}

// RegisterResponse 注册响应(不返回密码字段)
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}
