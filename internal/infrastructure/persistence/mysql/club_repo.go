package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/smartlibrary/internal/domain/club"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// clubRepository 读书会仓储实现(MySQL)
type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository 创建读书会仓储
func NewClubRepository(db *gorm.DB) club.Repository {
	return &clubRepository{db: db}
}

// Create 创建读书会
func (r *clubRepository) Create(ctx context.Context, c *club.Club) error {
	model := &ClubModel{
		Name:           c.Name,
		Description:    c.Description,
		MaxMembers:     c.MaxMembers,
		CurrentMembers: c.CurrentMembers,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "读书会名称已存在")
		}
		return apperrors.Wrap(err, "创建读书会失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找读书会
func (r *clubRepository) FindByID(ctx context.Context, id uint) (*club.Club, error) {
	var model ClubModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, club.ErrClubNotFound
		}
		return nil, apperrors.Wrap(err, "查询读书会失败")
	}

	return toClubEntity(&model), nil
}

// List 查询所有读书会
func (r *clubRepository) List(ctx context.Context) ([]*club.Club, error) {
	var models []ClubModel
	if err := getDB(ctx, r.db).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询读书会列表失败")
	}

	clubs := make([]*club.Club, len(models))
	for i := range models {
		clubs[i] = toClubEntity(&models[i])
	}

	return clubs, nil
}

// LockByID 悲观锁查询读书会(用于加入事务)
// 容量检查与计数变更串行化,与图书台账同一套手法
func (r *clubRepository) LockByID(ctx context.Context, id uint) (*club.Club, error) {
	var model ClubModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, club.ErrClubNotFound
		}
		return nil, apperrors.Wrap(err, "锁定读书会失败")
	}

	return toClubEntity(&model), nil
}

// UpdateMemberCount 更新当前成员数(原子操作)
func (r *clubRepository) UpdateMemberCount(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&ClubModel{}).
		Where("id = ?", id).
		Where("current_members + ? >= 0", delta).
		Where("current_members + ? <= max_members", delta).
		Update("current_members", gorm.Expr("current_members + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新成员数失败")
	}

	if result.RowsAffected == 0 {
		var model ClubModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return club.ErrClubNotFound
			}
			return apperrors.Wrap(err, "查询读书会失败")
		}
		if delta > 0 {
			return club.ErrClubFull
		}
		return apperrors.New(apperrors.ErrCodeDatabaseError, "成员计数异常")
	}

	return nil
}

// AddMembership 创建成员关系
func (r *clubRepository) AddMembership(ctx context.Context, clubID, memberID uint) error {
	model := &ClubMemberModel{
		ClubID:   clubID,
		MemberID: memberID,
		JoinedAt: time.Now(),
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return club.ErrAlreadyInClub
		}
		return apperrors.Wrap(err, "加入读书会失败")
	}

	return nil
}

// RemoveMembership 删除成员关系
func (r *clubRepository) RemoveMembership(ctx context.Context, clubID, memberID uint) error {
	result := getDB(ctx, r.db).
		Where("club_id = ? AND member_id = ?", clubID, memberID).
		Delete(&ClubMemberModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "退出读书会失败")
	}

	if result.RowsAffected == 0 {
		return club.ErrNotInClub
	}

	return nil
}

// HasMembership 查询成员关系是否存在
func (r *clubRepository) HasMembership(ctx context.Context, clubID, memberID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&ClubMemberModel{}).
		Where("club_id = ? AND member_id = ?", clubID, memberID).
		Count(&count).Error

	if err != nil {
		return false, apperrors.Wrap(err, "查询成员关系失败")
	}

	return count > 0, nil
}

// toClubEntity GORM模型 → 领域实体
func toClubEntity(model *ClubModel) *club.Club {
	return &club.Club{
		ID:             model.ID,
		Name:           model.Name,
		Description:    model.Description,
		MaxMembers:     model.MaxMembers,
		CurrentMembers: model.CurrentMembers,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
