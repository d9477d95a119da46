package loan

import (
	"context"
	"time"

	"github.com/xiebiao/smartlibrary/internal/domain/loan"
)

// ListLoansUseCase 借阅列表查询用例
// 只读用例,普通快照读不加锁,可与借还事务并发执行
type ListLoansUseCase struct {
	loanRepo   loan.Repository
	finePolicy loan.FinePolicy

	nowFunc func() time.Time
}

// NewListLoansUseCase 创建借阅列表查询用例
func NewListLoansUseCase(loanRepo loan.Repository, finePolicy loan.FinePolicy) *ListLoansUseCase {
	return &ListLoansUseCase{
		loanRepo:   loanRepo,
		finePolicy: finePolicy,
		nowFunc:    time.Now,
	}
}

// LoanItem 借阅列表项DTO
type LoanItem struct {
	LoanID      uint   `json:"loan_id"`
	BookID      uint   `json:"book_id"`
	BookTitle   string `json:"book_title"`
	MemberID    uint   `json:"member_id"`
	MemberName  string `json:"member_name"`
	LoanDate    string `json:"loan_date"`
	DueDate     string `json:"due_date"`
	Overdue     bool   `json:"overdue"`
	DaysOverdue int    `json:"days_overdue"` // 未逾期时为0
	AccruedFine int64  `json:"accrued_fine"` // 若今日归还需缴的罚款(分)
}

// ListActive 查询所有未归还借阅,按应还日期升序
// 逾期状态与应计罚款按查询当日实时计算,不依赖后台任务刷新
func (uc *ListLoansUseCase) ListActive(ctx context.Context) ([]*LoanItem, error) {
	views, err := uc.loanRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return uc.toItems(views), nil
}

// ListOverdue 查询已逾期的未归还借阅
func (uc *ListLoansUseCase) ListOverdue(ctx context.Context) ([]*LoanItem, error) {
	views, err := uc.loanRepo.ListOverdue(ctx, uc.nowFunc())
	if err != nil {
		return nil, err
	}
	return uc.toItems(views), nil
}

func (uc *ListLoansUseCase) toItems(views []*loan.ActiveLoanView) []*LoanItem {
	now := uc.nowFunc()
	items := make([]*LoanItem, 0, len(views))
	for _, v := range views {
		daysOverdue := loan.OverdueDays(v.DueDate, now)
		fine := uc.finePolicy.Assess(v.DueDate, now)
		items = append(items, &LoanItem{
			LoanID:      v.LoanID,
			BookID:      v.BookID,
			BookTitle:   v.BookTitle,
			MemberID:    v.MemberID,
			MemberName:  v.MemberName,
			LoanDate:    v.LoanDate.Format("2006-01-02"),
			DueDate:     v.DueDate.Format("2006-01-02"),
			Overdue:     daysOverdue > 0,
			DaysOverdue: daysOverdue,
			AccruedFine: fine,
		})
	}
	return items
}
