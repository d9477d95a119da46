package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/smartlibrary/internal/domain/member"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// memberRepository 读者仓储实现(MySQL)
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建读者仓储
func NewMemberRepository(db *gorm.DB) member.Repository {
	return &memberRepository{db: db}
}

// Create 创建读者
func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	model := &MemberModel{
		UserID:       m.UserID,
		Name:         m.Name,
		CurrentLoans: m.CurrentLoans,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// UserID唯一索引冲突:同一用户不能重复注册为读者
		if isDuplicateError(err) {
			return member.ErrAlreadyEnrolled
		}
		return apperrors.Wrap(err, "创建读者失败")
	}

	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	m.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找读者
func (r *memberRepository) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	var model MemberModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}

	return toMemberEntity(&model), nil
}

// FindByUserID 根据登录用户ID查找读者
func (r *memberRepository) FindByUserID(ctx context.Context, userID uint) (*member.Member, error) {
	var model MemberModel
	err := getDB(ctx, r.db).Where("user_id = ?", userID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}

	return toMemberEntity(&model), nil
}

// LockByID 悲观锁查询读者(用于借还事务)
func (r *memberRepository) LockByID(ctx context.Context, id uint) (*member.Member, error) {
	var model MemberModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "锁定读者失败")
	}

	return toMemberEntity(&model), nil
}

// UpdateLoanCount 更新当前借阅数(原子操作)
// SQL层守卫计数下界,归还路径即使重复执行计数也不会为负
func (r *memberRepository) UpdateLoanCount(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&MemberModel{}).
		Where("id = ?", id).
		Where("current_loans + ? >= 0", delta).
		Update("current_loans", gorm.Expr("current_loans + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅数失败")
	}

	if result.RowsAffected == 0 {
		var model MemberModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return member.ErrMemberNotFound
			}
			return apperrors.Wrap(err, "查询读者失败")
		}
		// 读者存在但未命中,说明delta会把计数扣成负数,数据已不一致
		return apperrors.New(apperrors.ErrCodeDatabaseError, "借阅计数异常")
	}

	return nil
}

// toMemberEntity GORM模型 → 领域实体
func toMemberEntity(model *MemberModel) *member.Member {
	return &member.Member{
		ID:           model.ID,
		UserID:       model.UserID,
		Name:         model.Name,
		CurrentLoans: model.CurrentLoans,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
