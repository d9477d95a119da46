package loan

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/smartlibrary/internal/domain/book"
	"github.com/xiebiao/smartlibrary/internal/domain/loan"
	"github.com/xiebiao/smartlibrary/internal/domain/member"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
	"github.com/xiebiao/smartlibrary/pkg/metrics"
)

// CheckoutUseCase 借出用例
// 这是整个系统最核心的用例:事务处理、悲观锁并发控制、业务规则校验
type CheckoutUseCase struct {
	loanRepo   loan.Repository
	bookRepo   book.Repository
	memberRepo member.Repository
	ledger     *book.Ledger
	policy     member.LoanPolicy
	periodDays int
	txManager  TxManager
	events     EventPublisher // 可为nil(未配置MQ时)

	// nowFunc 时钟注入点,测试时固定时间
	nowFunc func() time.Time
}

// NewCheckoutUseCase 创建借出用例
func NewCheckoutUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	memberRepo member.Repository,
	policy member.LoanPolicy,
	periodDays int,
	txManager TxManager,
	events EventPublisher,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		loanRepo:   loanRepo,
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		ledger:     book.NewLedger(bookRepo),
		policy:     policy,
		periodDays: periodDays,
		txManager:  txManager,
		events:     events,
		nowFunc:    time.Now,
	}
}

// CheckoutRequest 借出请求DTO
type CheckoutRequest struct {
	BookID   uint // 图书ID
	MemberID uint // 读者ID
}

// CheckoutResponse 借出响应DTO
type CheckoutResponse struct {
	LoanID   uint   `json:"loan_id"`
	BookID   uint   `json:"book_id"`
	MemberID uint   `json:"member_id"`
	LoanDate string `json:"loan_date"`
	DueDate  string `json:"due_date"`
}

// Execute 执行借出用例
//
// 核心问题:并发借阅超借
// 场景:某书只剩1册可借,两名馆员同时为不同读者办理借出
// 错误实现:先查询副本数再判断再扣减,两个请求都能通过判断,
// 最后借出2册,台账变成-1
//
// 正确实现:悲观锁
//  1. SELECT FOR UPDATE 锁定图书行与读者行
//  2. 校验借阅上限与可借副本数
//  3. 创建借阅记录,副本数-1,读者借阅数+1
//  4. COMMIT释放锁
//
// 校验顺序固定:图书存在 → 读者存在 → 借阅上限 → 可借副本,
// 同时触发多条规则时客户端总是收到同一个错误
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	if req.BookID == 0 || req.MemberID == 0 {
		return nil, apperrors.ErrInvalidParams
	}

	start := uc.nowFunc()

	var created *loan.Loan
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:锁定图书行
		// 按固定顺序加锁(先图书后读者),避免两个借阅事务互相等待形成死锁
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// 步骤2:锁定读者行
		m, err := uc.memberRepo.LockByID(txCtx, req.MemberID)
		if err != nil {
			return err
		}

		// 步骤3:借阅上限检查
		// 必须在锁定后检查,否则并发借阅可能同时通过检查导致超限
		if !uc.policy.CanBorrow(m.CurrentLoans) {
			return member.ErrLoanLimitExceeded
		}

		// 步骤4:可借副本数-1(台账内部再次校验下界)
		if err := uc.ledger.Decrement(txCtx, b.ID); err != nil {
			return err
		}

		// 步骤5:创建借阅记录
		newLoan := loan.NewLoan(b.ID, m.ID, uc.nowFunc(), uc.periodDays)
		if err := uc.loanRepo.Create(txCtx, newLoan); err != nil {
			return err
		}

		// 步骤6:读者当前借阅数+1
		if err := uc.memberRepo.UpdateLoanCount(txCtx, m.ID, +1); err != nil {
			return err
		}

		created = newLoan
		return nil
	})
	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	metrics.IncCounter(metrics.LoansCheckedOutTotal)
	metrics.ObserveHistogram(metrics.CheckoutDuration, uc.nowFunc().Sub(start).Seconds())

	// 事务已提交,事件发布失败只记日志
	if uc.events != nil {
		event := LoanCheckedOutEvent{
			LoanID:   created.ID,
			BookID:   created.BookID,
			MemberID: created.MemberID,
			LoanDate: created.LoanDate,
			DueDate:  created.DueDate,
		}
		if err := uc.events.Publish(EventLoanCheckedOut, event); err != nil {
			log.Printf("[事件] 发布借出事件失败: %v", err)
		}
	}

	return &CheckoutResponse{
		LoanID:   created.ID,
		BookID:   created.BookID,
		MemberID: created.MemberID,
		LoanDate: created.LoanDate.Format("2006-01-02"),
		DueDate:  created.DueDate.Format("2006-01-02"),
	}, nil
}

// recordRejection 按拒绝原因记录指标
func (uc *CheckoutUseCase) recordRejection(err error) {
	var reason string
	switch apperrors.GetAppError(err).Code {
	case apperrors.ErrCodeLoanLimit:
		reason = "limit_exceeded"
	case apperrors.ErrCodeNoCopies:
		reason = "unavailable"
	case apperrors.ErrCodeBookNotFound, apperrors.ErrCodeMemberNotFound:
		reason = "not_found"
	default:
		return
	}
	metrics.IncCounterVec(metrics.CheckoutRejectedTotal, map[string]string{"reason": reason})
}
