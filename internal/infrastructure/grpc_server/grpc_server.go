// Package grpcserver 装配仅提供 grpc.health.v1.Health 的 gRPC 监听，供平台探活。
package grpcserver

import (
	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"

	"github.com/bionicotaku/lingo-utils/observability"
	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"github.com/google/wire"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	otelgrpcfilters "go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc/filters"
	"go.opentelemetry.io/otel"
	stdgrpc "google.golang.org/grpc"
	"google.golang.org/grpc/stats"
)

// ProviderSet 只提供健康检查监听，字幕业务接口全部走 HTTP。
var ProviderSet = wire.NewSet(NewGRPCServer)

// NewGRPCServer 构造 Kratos gRPC Server。Kratos 默认注册 Health 服务，这里不挂载业务 API。
//
// 中间件链：obsTrace.Server() → recovery.Recovery() → logging.Server()。
// 指标采集由 metricsCfg.GRPCEnabled 控制，GRPCIncludeHealth 为 false 时过滤健康检查。
func NewGRPCServer(cfg configloader.ServerConfig, metricsCfg *observability.MetricsConfig, logger log.Logger) *grpc.Server {
	metricsEnabled := true
	includeHealth := false
	if metricsCfg != nil {
		metricsEnabled = metricsCfg.GRPCEnabled
		includeHealth = metricsCfg.GRPCIncludeHealth
	}

	opts := []grpc.ServerOption{
		grpc.Middleware(
			obsTrace.Server(),
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if metricsEnabled {
		opts = append(opts, grpc.Options(stdgrpc.StatsHandler(newServerHandler(includeHealth))))
	}
	listener := cfg.GRPC
	if listener.Network != "" {
		opts = append(opts, grpc.Network(listener.Network))
	}
	if listener.Address != "" {
		opts = append(opts, grpc.Address(listener.Address))
	}
	if listener.Timeout > 0 {
		opts = append(opts, grpc.Timeout(listener.Timeout))
	}
	return grpc.NewServer(opts...)
}

// newServerHandler 构造 gRPC Server 的 OpenTelemetry StatsHandler。
func newServerHandler(includeHealth bool) stats.Handler {
	opts := []otelgrpc.Option{
		otelgrpc.WithMeterProvider(otel.GetMeterProvider()),
	}
	if !includeHealth {
		opts = append(opts, otelgrpc.WithFilter(otelgrpcfilters.Not(otelgrpcfilters.HealthCheck())))
	}
	return otelgrpc.NewServerHandler(opts...)
}
