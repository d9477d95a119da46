package club

import (
	"context"

	"github.com/xiebiao/smartlibrary/internal/domain/club"
	"github.com/xiebiao/smartlibrary/internal/domain/member"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// TxManager 事务管理器接口(与借阅工作流共用mysql.TxManager实现)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateClubUseCase 创建读书会用例
type CreateClubUseCase struct {
	clubRepo club.Repository
}

// NewCreateClubUseCase 创建读书会用例
func NewCreateClubUseCase(clubRepo club.Repository) *CreateClubUseCase {
	return &CreateClubUseCase{clubRepo: clubRepo}
}

// CreateClubRequest 创建请求DTO
type CreateClubRequest struct {
	Name        string
	Description string
	MaxMembers  int
}

// ClubInfo 读书会DTO
type ClubInfo struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	MaxMembers     int    `json:"max_members"`
	CurrentMembers int    `json:"current_members"`
}

// Execute 执行创建
func (uc *CreateClubUseCase) Execute(ctx context.Context, req CreateClubRequest) (*ClubInfo, error) {
	if req.Name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "读书会名称不能为空")
	}
	if req.MaxMembers <= 0 {
		return nil, club.ErrInvalidCapacity
	}

	c := club.NewClub(req.Name, req.Description, req.MaxMembers)
	if err := uc.clubRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return toClubInfo(c), nil
}

// JoinClubUseCase 加入读书会用例
// 容量控制与借阅台账是同一套手法:行锁 + 事务内检查与计数变更
type JoinClubUseCase struct {
	clubRepo   club.Repository
	memberRepo member.Repository
	txManager  TxManager
}

// NewJoinClubUseCase 创建加入读书会用例
func NewJoinClubUseCase(clubRepo club.Repository, memberRepo member.Repository, txManager TxManager) *JoinClubUseCase {
	return &JoinClubUseCase{
		clubRepo:   clubRepo,
		memberRepo: memberRepo,
		txManager:  txManager,
	}
}

// Execute 执行加入
// 事务内流程:
//  1. 锁定读书会行
//  2. 校验读者存在
//  3. 容量检查(锁内检查,并发加入串行化)
//  4. 创建成员关系(唯一索引兜底防重复)
//  5. 成员数+1
func (uc *JoinClubUseCase) Execute(ctx context.Context, clubID, memberID uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.clubRepo.LockByID(txCtx, clubID)
		if err != nil {
			return err
		}

		if _, err := uc.memberRepo.FindByID(txCtx, memberID); err != nil {
			return err
		}

		if !c.HasVacancy() {
			return club.ErrClubFull
		}

		if err := uc.clubRepo.AddMembership(txCtx, clubID, memberID); err != nil {
			return err
		}

		return uc.clubRepo.UpdateMemberCount(txCtx, clubID, +1)
	})
}

// LeaveClubUseCase 退出读书会用例
type LeaveClubUseCase struct {
	clubRepo  club.Repository
	txManager TxManager
}

// NewLeaveClubUseCase 创建退出读书会用例
func NewLeaveClubUseCase(clubRepo club.Repository, txManager TxManager) *LeaveClubUseCase {
	return &LeaveClubUseCase{
		clubRepo:  clubRepo,
		txManager: txManager,
	}
}

// Execute 执行退出
func (uc *LeaveClubUseCase) Execute(ctx context.Context, clubID, memberID uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.clubRepo.LockByID(txCtx, clubID); err != nil {
			return err
		}

		if err := uc.clubRepo.RemoveMembership(txCtx, clubID, memberID); err != nil {
			return err
		}

		return uc.clubRepo.UpdateMemberCount(txCtx, clubID, -1)
	})
}

// ListClubsUseCase 读书会列表查询用例
type ListClubsUseCase struct {
	clubRepo club.Repository
}

// NewListClubsUseCase 创建读书会列表查询用例
func NewListClubsUseCase(clubRepo club.Repository) *ListClubsUseCase {
	return &ListClubsUseCase{clubRepo: clubRepo}
}

// Execute 查询所有读书会
func (uc *ListClubsUseCase) Execute(ctx context.Context) ([]*ClubInfo, error) {
	clubs, err := uc.clubRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]*ClubInfo, len(clubs))
	for i, c := range clubs {
		infos[i] = toClubInfo(c)
	}

	return infos, nil
}

func toClubInfo(c *club.Club) *ClubInfo {
	return &ClubInfo{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		MaxMembers:     c.MaxMembers,
		CurrentMembers: c.CurrentMembers,
	}
}
