package member

// DefaultMaxLoans 默认借阅上限
// 来源于馆务规定"每位读者最多同时借阅3本",可通过配置loan.max_loans覆盖
const DefaultMaxLoans = 3

// LoanPolicy 借阅上限策略
// 设计说明:
// 1. 纯函数式策略对象,不访问数据库,便于单测
// 2. 上限是配置项而非硬编码,构造时从config注入
type LoanPolicy struct {
	MaxLoans int // 每位读者可同时持有的未归还借阅数上限
}

// NewLoanPolicy 创建借阅上限策略
// maxLoans<=0时回退到默认值
func NewLoanPolicy(maxLoans int) LoanPolicy {
	if maxLoans <= 0 {
		maxLoans = DefaultMaxLoans
	}
	return LoanPolicy{MaxLoans: maxLoans}
}

// CanBorrow 判断当前借阅数下能否再借一本
func (p LoanPolicy) CanBorrow(currentLoans int) bool {
	return currentLoans < p.MaxLoans
}
