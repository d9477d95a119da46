package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/smartlibrary/internal/domain/book"
	"github.com/xiebiao/smartlibrary/pkg/circuitbreaker"
)

// BookCache 图书详情缓存(Cache-Aside)
// 设计说明:
// 1. 读路径:先查缓存,未命中回源数据库并写回
// 2. 写路径:编目更新后删除缓存(不更新缓存,避免并发写脏数据)
// 3. 借还事务不经过缓存:副本数必须走数据库行锁读取,
//    缓存里的AvailableCopies只用于列表展示,允许短暂滞后
// 4. Redis访问包在熔断器里:缓存故障时直接回源,不拖垮查询接口
type BookCache struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	ttl     time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client) *BookCache {
	breaker := circuitbreaker.NewCircuitBreaker("book-cache", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &BookCache{
		client:  client,
		breaker: breaker,
		ttl:     10 * time.Minute,
	}
}

// Get 查询缓存,未命中或缓存故障返回nil
func (c *BookCache) Get(ctx context.Context, bookID uint) *book.Book {
	var b *book.Book

	err := c.breaker.Execute(func() error {
		data, err := c.client.Get(ctx, c.key(bookID)).Bytes()
		if err != nil {
			if err == redis.Nil {
				return nil // 未命中不算故障
			}
			return err
		}

		var cached book.Book
		if err := json.Unmarshal(data, &cached); err != nil {
			// 缓存内容损坏,当作未命中,等待下次回源覆盖
			log.Printf("[缓存] 图书缓存反序列化失败 id=%d: %v", bookID, err)
			return nil
		}

		b = &cached
		return nil
	})
	if err != nil {
		// 熔断打开或Redis故障,回源数据库
		log.Printf("[缓存] 图书缓存不可用 id=%d: %v", bookID, err)
		return nil
	}

	return b
}

// Set 写入缓存,失败只记日志
func (c *BookCache) Set(ctx context.Context, b *book.Book) {
	err := c.breaker.Execute(func() error {
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}
		return c.client.Set(ctx, c.key(b.ID), data, c.ttl).Err()
	})
	if err != nil {
		log.Printf("[缓存] 写入图书缓存失败 id=%d: %v", b.ID, err)
	}
}

// Invalidate 删除缓存(编目更新后调用)
func (c *BookCache) Invalidate(ctx context.Context, bookID uint) {
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, c.key(bookID)).Err()
	})
	if err != nil {
		log.Printf("[缓存] 删除图书缓存失败 id=%d: %v", bookID, err)
	}
}

func (c *BookCache) key(bookID uint) string {
	return fmt.Sprintf("book:%d", bookID)
}
