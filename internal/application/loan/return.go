package loan

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/smartlibrary/internal/domain/book"
	"github.com/xiebiao/smartlibrary/internal/domain/loan"
	"github.com/xiebiao/smartlibrary/internal/domain/member"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
	"github.com/xiebiao/smartlibrary/pkg/metrics"
)

// ReturnUseCase 归还用例
// 归还与借出共用同一套并发控制手法:行锁 + 单事务原子变更
type ReturnUseCase struct {
	loanRepo   loan.Repository
	bookRepo   book.Repository
	memberRepo member.Repository
	ledger     *book.Ledger
	finePolicy loan.FinePolicy
	txManager  TxManager
	events     EventPublisher // 可为nil

	nowFunc func() time.Time
}

// NewReturnUseCase 创建归还用例
func NewReturnUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	memberRepo member.Repository,
	finePolicy loan.FinePolicy,
	txManager TxManager,
	events EventPublisher,
) *ReturnUseCase {
	return &ReturnUseCase{
		loanRepo:   loanRepo,
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		ledger:     book.NewLedger(bookRepo),
		finePolicy: finePolicy,
		txManager:  txManager,
		events:     events,
		nowFunc:    time.Now,
	}
}

// ReturnRequest 归还请求DTO
type ReturnRequest struct {
	LoanID uint // 借阅记录ID
}

// ReturnResponse 归还响应DTO
type ReturnResponse struct {
	LoanID     uint   `json:"loan_id"`
	BookID     uint   `json:"book_id"`
	MemberID   uint   `json:"member_id"`
	ReturnDate string `json:"return_date"`
	Fine       int64  `json:"fine"`      // 罚款金额(分)
	FineYuan   string `json:"fine_yuan"` // 罚款金额(元,展示用)
}

// Execute 执行归还用例
//
// 事务内流程:
//  1. SELECT FOR UPDATE 锁定借阅记录行
//     并发重复归还在这把锁上串行化:第二个事务拿到锁后
//     读到已关闭状态,返回ErrAlreadyReturned
//  2. 关闭借阅记录(状态机 Active -> Closed)
//  3. 计算逾期罚款(纯计算,不阻塞归还)
//  4. 可借副本数+1(台账校验上界)
//  5. 读者当前借阅数-1
//
// 罚款只计算并通告,是否收缴、减免由馆员线下处理,不落库
func (uc *ReturnUseCase) Execute(ctx context.Context, req ReturnRequest) (*ReturnResponse, error) {
	if req.LoanID == 0 {
		return nil, apperrors.ErrInvalidParams
	}

	now := uc.nowFunc()

	var (
		returned *loan.Loan
		fine     int64
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:锁定借阅记录
		l, err := uc.loanRepo.LockByID(txCtx, req.LoanID)
		if err != nil {
			return err
		}

		// 步骤2:状态转换,重复归还在这里被拒绝
		if err := l.Close(now); err != nil {
			return err
		}

		// 步骤3:逾期罚款(按日历日计算)
		fine = uc.finePolicy.Assess(l.DueDate, now)

		// 步骤4:副本回架
		if err := uc.ledger.Increment(txCtx, l.BookID); err != nil {
			return err
		}

		// 步骤5:读者借阅数-1
		if err := uc.memberRepo.UpdateLoanCount(txCtx, l.MemberID, -1); err != nil {
			return err
		}

		// 步骤6:写入归还日期
		if err := uc.loanRepo.Update(txCtx, l); err != nil {
			return err
		}

		returned = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.LoansReturnedTotal)
	if fine > 0 {
		metrics.AddCounter(metrics.FineCollectedTotal, float64(fine))
	}

	if uc.events != nil {
		event := LoanReturnedEvent{
			LoanID:     returned.ID,
			BookID:     returned.BookID,
			MemberID:   returned.MemberID,
			ReturnDate: *returned.ReturnDate,
			Fine:       fine,
		}
		if err := uc.events.Publish(EventLoanReturned, event); err != nil {
			log.Printf("[事件] 发布归还事件失败: %v", err)
		}
	}

	return &ReturnResponse{
		LoanID:     returned.ID,
		BookID:     returned.BookID,
		MemberID:   returned.MemberID,
		ReturnDate: returned.ReturnDate.Format("2006-01-02"),
		Fine:       fine,
		FineYuan:   fmt.Sprintf("%.2f", float64(fine)/100),
	}, nil
}
