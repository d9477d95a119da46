package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xiebiao/smartlibrary/pkg/metrics"
)

// Metrics HTTP指标采集中间件
// 按方法、路由模板、状态码统计请求数与耗时
// 使用c.FullPath()而非原始URL,避免路径参数导致标签基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // 404等未命中路由的请求归为一类
		}

		if metrics.HTTPRequestsTotal != nil {
			metrics.HTTPRequestsTotal.With(prometheus.Labels{
				"method": c.Request.Method,
				"path":   path,
				"status": strconv.Itoa(c.Writer.Status()),
			}).Inc()
		}
		if metrics.HTTPRequestDuration != nil {
			metrics.HTTPRequestDuration.With(prometheus.Labels{
				"method": c.Request.Method,
				"path":   path,
			}).Observe(time.Since(start).Seconds())
		}
	}
}
