// Package tracing 提供基于OpenTelemetry的分布式追踪
//
// 核心概念：
// 1. Trace（追踪）：一个完整的请求链路（如一次借阅从HTTP入口到事务提交）
// 2. Span（跨度）：一个操作单元（如锁定图书行、创建借阅记录）
// 3. SpanContext：跨组件传递的TraceID/SpanID元数据
//
// 使用示例：
//
//	// 1. 初始化全局Tracer Provider
//	shutdown, err := tracing.InitTracer("smartlibrary-api", "localhost:4317")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(context.Background())
//
//	// 2. 业务代码中创建Span
//	func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) error {
//	    tracer := otel.Tracer("smartlibrary")
//	    ctx, span := tracer.Start(ctx, "loan.Checkout")
//	    defer span.End()
//	    ...
//	}
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: OTLP gRPC端点（如 localhost:4317）
//
// 返回：
//   - shutdown: 关闭函数（程序退出时调用，确保数据刷新）
//
// 设计要点：
// 1. 使用OTLP协议而非Jaeger原生协议（厂商中立，可切换Zipkin/Datadog）
// 2. 采样策略：AlwaysSample适合开发环境；
//    生产环境建议 sdktrace.TraceIDRatioBased(0.01)
// 3. BatchSpanProcessor批量发送Span（性能优于SimpleSpanProcessor）
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性，附加到所有Span，便于在UI中筛选）
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建Tracer Provider
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider与传播器
	// 全局Provider的优点：业务代码直接用otel.Tracer()获取，
	// 第三方库（HTTP、gRPC）自动使用，traceparent跨服务自动传递
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
