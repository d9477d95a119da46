package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/smartlibrary/internal/domain/loan"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// loanRepository 借阅仓储实现(MySQL)
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

// Create 创建借阅记录
func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := &LoanModel{
		BookID:   l.BookID,
		MemberID: l.MemberID,
		LoanDate: l.LoanDate,
		DueDate:  l.DueDate,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找借阅记录
func (r *loanRepository) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toLoanEntity(&model), nil
}

// LockByID 悲观锁查询借阅记录(用于归还事务)
// 并发重复归还在这把行锁上串行化
func (r *loanRepository) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "锁定借阅记录失败")
	}

	return toLoanEntity(&model), nil
}

// Update 更新借阅记录(写入归还日期)
func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	model := &LoanModel{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		CreatedAt:  l.CreatedAt,
	}

	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新借阅记录失败")
	}

	l.UpdatedAt = model.UpdatedAt
	return nil
}

// activeLoanRow JOIN查询结果扫描用
type activeLoanRow struct {
	LoanID     uint
	BookID     uint
	BookTitle  string
	MemberID   uint
	MemberName string
	LoanDate   time.Time
	DueDate    time.Time
}

// ListActive 查询所有未归还借阅,按应还日期升序
// JOIN图书表与读者表带出书名和姓名,避免应用层N+1查询
func (r *loanRepository) ListActive(ctx context.Context) ([]*loan.ActiveLoanView, error) {
	return r.listActive(ctx, nil)
}

// ListOverdue 查询已逾期的未归还借阅
func (r *loanRepository) ListOverdue(ctx context.Context, today time.Time) ([]*loan.ActiveLoanView, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return r.listActive(ctx, &day)
}

func (r *loanRepository) listActive(ctx context.Context, overdueBefore *time.Time) ([]*loan.ActiveLoanView, error) {
	query := getDB(ctx, r.db).
		Table("loans").
		Select(`loans.id AS loan_id,
			loans.book_id,
			books.title AS book_title,
			loans.member_id,
			members.name AS member_name,
			loans.loan_date,
			loans.due_date`).
		Joins("JOIN books ON books.id = loans.book_id").
		Joins("JOIN members ON members.id = loans.member_id").
		Where("loans.return_date IS NULL")

	if overdueBefore != nil {
		query = query.Where("loans.due_date < ?", *overdueBefore)
	}

	var rows []activeLoanRow
	if err := query.Order("loans.due_date ASC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询借阅列表失败")
	}

	views := make([]*loan.ActiveLoanView, len(rows))
	for i, row := range rows {
		views[i] = &loan.ActiveLoanView{
			LoanID:     row.LoanID,
			BookID:     row.BookID,
			BookTitle:  row.BookTitle,
			MemberID:   row.MemberID,
			MemberName: row.MemberName,
			LoanDate:   row.LoanDate,
			DueDate:    row.DueDate,
		}
	}

	return views, nil
}

// CountActiveByMember 查询读者当前未归还借阅数
func (r *loanRepository) CountActiveByMember(ctx context.Context, memberID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&LoanModel{}).
		Where("member_id = ? AND return_date IS NULL", memberID).
		Count(&count).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "统计借阅数失败")
	}

	return count, nil
}

// toLoanEntity GORM模型 → 领域实体
func toLoanEntity(model *LoanModel) *loan.Loan {
	return &loan.Loan{
		ID:         model.ID,
		BookID:     model.BookID,
		MemberID:   model.MemberID,
		LoanDate:   model.LoanDate,
		DueDate:    model.DueDate,
		ReturnDate: model.ReturnDate,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
