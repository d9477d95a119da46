// Package circuitbreaker 实现熔断器模式（Circuit Breaker Pattern）
//
// 熔断器核心思想：
// 1. 监控调用的成功率
// 2. 失败达到阈值时快速失败（打开熔断器），不再调用下游
// 3. 过一段时间后半开探测，成功则恢复
//
// 本项目的使用场景：图书详情的Redis缓存读写。
// Redis故障时熔断缓存访问，请求直接落到MySQL，避免每次请求都等待缓存超时。
//
// 三种状态：
//   - CLOSED（关闭）：正常放行，统计失败
//   - OPEN（打开）：快速失败，超时后转HALF_OPEN
//   - HALF_OPEN（半开）：放行有限请求探测，成功转CLOSED，失败转回OPEN
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	// StateClosed 关闭状态（正常放行）
	StateClosed State = iota

	// StateOpen 打开状态（熔断，快速失败）
	StateOpen

	// StateHalfOpen 半开状态（有限探测）
	StateHalfOpen
)

// String 状态转字符串（便于日志）
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrOpenState 熔断器打开，请求被拒绝
	ErrOpenState = errors.New("熔断器已打开，请求被拒绝")

	// ErrTooManyRequests 半开状态下探测请求已满
	ErrTooManyRequests = errors.New("半开状态探测请求数已达上限")
)

// Counts 调用统计
type Counts struct {
	Requests             uint32 // 当前周期内的请求数
	TotalSuccesses       uint32 // 成功总数
	TotalFailures        uint32 // 失败总数
	ConsecutiveSuccesses uint32 // 连续成功数
	ConsecutiveFailures  uint32 // 连续失败数
}

func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

func (c *Counts) clear() {
	*c = Counts{}
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许通过的最大探测请求数
	MaxRequests uint32

	// Interval 关闭状态下统计周期（到期清零计数，0表示不清零）
	Interval time.Duration

	// Timeout 打开状态持续时间（到期后转半开）
	Timeout time.Duration

	// ReadyToTrip 根据统计判断是否触发熔断
	// 为nil时默认：连续失败5次触发
	ReadyToTrip func(counts Counts) bool
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name        string
	maxRequests uint32
	interval    time.Duration
	timeout     time.Duration
	readyToTrip func(counts Counts) bool

	mu         sync.Mutex
	state      State
	counts     Counts
	expiry     time.Time // 当前状态的到期时间（CLOSED周期清零 / OPEN转半开）
	inFlight   uint32    // 半开状态下进行中的探测请求数
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:        name,
		maxRequests: cfg.MaxRequests,
		interval:    cfg.Interval,
		timeout:     cfg.Timeout,
		readyToTrip: cfg.ReadyToTrip,
		state:       StateClosed,
	}

	if cb.maxRequests == 0 {
		cb.maxRequests = 1
	}
	if cb.timeout == 0 {
		cb.timeout = 30 * time.Second
	}
	if cb.readyToTrip == nil {
		cb.readyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}

	cb.refreshExpiry(time.Now())
	return cb
}

// Execute 执行受保护的调用
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := fn()
	cb.afterRequest(err == nil)
	return err
}

// State 返回当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.advance(time.Now())
	return cb.state
}

// Counts 返回当前统计
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

// Name 返回熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.advance(now)

	switch cb.state {
	case StateOpen:
		return ErrOpenState
	case StateHalfOpen:
		if cb.inFlight >= cb.maxRequests {
			return ErrTooManyRequests
		}
		cb.inFlight++
	}

	cb.counts.Requests++
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.advance(now)

	if cb.state == StateHalfOpen && cb.inFlight > 0 {
		cb.inFlight--
	}

	if success {
		cb.counts.onSuccess()
		// 半开状态下探测成功数达到上限，恢复到关闭状态
		if cb.state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.maxRequests {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.onFailure()
	switch cb.state {
	case StateClosed:
		if cb.readyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		// 探测失败，继续熔断
		cb.setState(StateOpen, now)
	}
}

// advance 处理基于时间的状态迁移（OPEN超时转半开、CLOSED周期清零）
func (cb *CircuitBreaker) advance(now time.Time) {
	switch cb.state {
	case StateOpen:
		if now.After(cb.expiry) {
			cb.setState(StateHalfOpen, now)
		}
	case StateClosed:
		if cb.interval > 0 && now.After(cb.expiry) {
			cb.counts.clear()
			cb.refreshExpiry(now)
		}
	}
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	cb.state = state
	cb.counts.clear()
	cb.inFlight = 0
	cb.refreshExpiry(now)
}

func (cb *CircuitBreaker) refreshExpiry(now time.Time) {
	switch cb.state {
	case StateOpen:
		cb.expiry = now.Add(cb.timeout)
	case StateClosed:
		if cb.interval > 0 {
			cb.expiry = now.Add(cb.interval)
		}
	}
}
