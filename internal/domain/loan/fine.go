package loan

import (
	"time"
)

// DefaultFineRatePerDay 默认逾期罚款费率(分/天)
// 原始馆务系统未明确该值,这里定为每天0.50元,可通过配置loan.fine_rate_per_day覆盖
const DefaultFineRatePerDay int64 = 50

// FinePolicy 逾期罚款策略
// 设计说明:
// 1. 纯函数式策略对象,不访问数据库,便于单测
// 2. 金额使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 按日历日差值计算,不按小时折算:应还日当天归还不罚款,
//    次日归还罚1天
type FinePolicy struct {
	RatePerDay int64 // 每逾期1天的罚款金额(分)
}

// NewFinePolicy 创建罚款策略
// ratePerDay<=0时回退到默认费率
func NewFinePolicy(ratePerDay int64) FinePolicy {
	if ratePerDay <= 0 {
		ratePerDay = DefaultFineRatePerDay
	}
	return FinePolicy{RatePerDay: ratePerDay}
}

// Assess 计算罚款金额(分)
// fine = max(0, 归还日 - 应还日) × 费率
// 按时或提前归还返回0
func (p FinePolicy) Assess(dueDate, returnedAt time.Time) int64 {
	return int64(OverdueDays(dueDate, returnedAt)) * p.RatePerDay
}

// OverdueDays 计算逾期天数(日历日差值),未逾期返回0
func OverdueDays(dueDate, asOf time.Time) int {
	due := truncateToDay(dueDate)
	day := truncateToDay(asOf)

	daysLate := int(day.Sub(due).Hours() / 24)
	if daysLate <= 0 {
		return 0
	}
	return daysLate
}
