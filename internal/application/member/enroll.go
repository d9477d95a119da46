package member

import (
	"context"
	"strings"

	"github.com/xiebiao/smartlibrary/internal/domain/member"
	"github.com/xiebiao/smartlibrary/internal/domain/user"
)

// EnrollUseCase 办理借书证用例
// 登录用户注册为读者,取得借阅资格
type EnrollUseCase struct {
	memberRepo member.Repository
	userRepo   user.Repository
}

// NewEnrollUseCase 创建办证用例
func NewEnrollUseCase(memberRepo member.Repository, userRepo user.Repository) *EnrollUseCase {
	return &EnrollUseCase{
		memberRepo: memberRepo,
		userRepo:   userRepo,
	}
}

// EnrollRequest 办证请求DTO
type EnrollRequest struct {
	UserID uint   // 当前登录用户ID(从JWT提取)
	Name   string // 读者姓名
}

// EnrollResponse 办证响应DTO
type EnrollResponse struct {
	MemberID uint   `json:"member_id"`
	UserID   uint   `json:"user_id"`
	Name     string `json:"name"`
}

// Execute 执行办证
// 业务规则:
// 1. 用户必须存在
// 2. 姓名不能为空
// 3. 同一用户只能办一张借书证(UserID唯一索引保证)
func (uc *EnrollUseCase) Execute(ctx context.Context, req EnrollRequest) (*EnrollResponse, error) {
	if _, err := uc.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, member.ErrInvalidName
	}

	m := member.NewMember(req.UserID, name)
	if err := uc.memberRepo.Create(ctx, m); err != nil {
		return nil, err // 重复办证已转换为ErrAlreadyEnrolled
	}

	return &EnrollResponse{
		MemberID: m.ID,
		UserID:   m.UserID,
		Name:     m.Name,
	}, nil
}

// GetMemberUseCase 读者详情查询用例
type GetMemberUseCase struct {
	memberRepo member.Repository
}

// NewGetMemberUseCase 创建读者详情查询用例
func NewGetMemberUseCase(memberRepo member.Repository) *GetMemberUseCase {
	return &GetMemberUseCase{memberRepo: memberRepo}
}

// MemberDetail 读者详情DTO
type MemberDetail struct {
	MemberID     uint   `json:"member_id"`
	UserID       uint   `json:"user_id"`
	Name         string `json:"name"`
	CurrentLoans int    `json:"current_loans"`
}

// Execute 查询读者详情
func (uc *GetMemberUseCase) Execute(ctx context.Context, memberID uint) (*MemberDetail, error) {
	m, err := uc.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return &MemberDetail{
		MemberID:     m.ID,
		UserID:       m.UserID,
		Name:         m.Name,
		CurrentLoans: m.CurrentLoans,
	}, nil
}

// GetByUser 根据登录用户查询自己的读者信息
func (uc *GetMemberUseCase) GetByUser(ctx context.Context, userID uint) (*MemberDetail, error) {
	m, err := uc.memberRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MemberDetail{
		MemberID:     m.ID,
		UserID:       m.UserID,
		Name:         m.Name,
		CurrentLoans: m.CurrentLoans,
	}, nil
}
