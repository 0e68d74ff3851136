// Package httpserver 负责装配承载字幕 API 的 HTTP Server 及其中间件栈。
package httpserver

import (
	stdhttp "net/http"

	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"

	"github.com/bionicotaku/lingo-utils/gcjwt"
	"github.com/bionicotaku/lingo-utils/observability"
	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// RouteRegistrar 由控制器层实现，负责把业务路由挂到 Server 上。
type RouteRegistrar interface {
	Register(srv *http.Server)
}

// ReadinessCheck 在 /readyz 上报告依赖是否可用，返回 nil 表示就绪。
type ReadinessCheck func(r *stdhttp.Request) error

// NewHTTPServer 构造 Kratos HTTP Server。
//
// 中间件链：obsTrace.Server() → recovery.Recovery() → metadata.Server() → JWT（可选）
// → ratelimit.Server()（可选）→ logging.Server()。
// /healthz 与 /readyz 不经过中间件，也不计入 HTTP 指标。
func NewHTTPServer(cfg configloader.ServerConfig, metricsCfg *observability.MetricsConfig, jwt gcjwt.ServerMiddleware, routes RouteRegistrar, ready ReadinessCheck, logger log.Logger) *http.Server {
	mws := []middleware.Middleware{
		obsTrace.Server(),
		recovery.Recovery(),
		metadata.Server(metadata.WithPropagatedPrefix(cfg.MetadataKeys...)),
	}
	if jwt != nil {
		mws = append(mws, middleware.Middleware(jwt))
	}
	if cfg.RateLimit {
		mws = append(mws, ratelimit.Server())
	}
	mws = append(mws, logging.Server(logger))

	opts := []http.ServerOption{
		http.Middleware(mws...),
	}
	if metricsCfg == nil || metricsCfg.Enabled {
		opts = append(opts, http.Filter(newOTelFilter()))
	}
	listener := cfg.HTTP
	if listener.Network != "" {
		opts = append(opts, http.Network(listener.Network))
	}
	if listener.Address != "" {
		opts = append(opts, http.Address(listener.Address))
	}
	if listener.Timeout > 0 {
		opts = append(opts, http.Timeout(listener.Timeout))
	}

	srv := http.NewServer(opts...)
	srv.HandleFunc("/healthz", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	})
	srv.HandleFunc("/readyz", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if ready != nil {
			if err := ready(r); err != nil {
				stdhttp.Error(w, err.Error(), stdhttp.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(stdhttp.StatusOK)
	})
	if routes != nil {
		routes.Register(srv)
	}
	return srv
}

// newOTelFilter 为业务请求生成 HTTP 服务端指标与 Span，探活路径除外。
func newOTelFilter() http.FilterFunc {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return otelhttp.NewHandler(next, "captions.http",
			otelhttp.WithMeterProvider(otel.GetMeterProvider()),
			otelhttp.WithFilter(func(r *stdhttp.Request) bool {
				return r.URL.Path != "/healthz" && r.URL.Path != "/readyz"
			}),
		)
	}
}
