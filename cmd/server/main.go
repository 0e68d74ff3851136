// Package main 提供字幕服务的启动入口。
// 负责加载配置、通过 Wire 装配依赖，启动 HTTP API 与 gRPC 健康检查监听，
// 并以后台 worker 形式运行 Outbox 发布器与 globalStats 定时刷新。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdhttp "net/http"
	"sync"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/cache"
	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	httpserver "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/http_server"
	statstasks "github.com/bionicotaku/lingo-services-captions/internal/tasks/stats"

	obswire "github.com/bionicotaku/lingo-utils/observability"
	outboxpublisher "github.com/bionicotaku/lingo-utils/outbox/publisher"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "go.uber.org/automaxprocs" // 自动设置 GOMAXPROCS 为容器 CPU 配额
)

type worker struct {
	name string
	run  func(context.Context) error
}

// newApp 组装 Kratos 应用：HTTP API、gRPC 健康检查，以及随应用启停的后台 worker。
func newApp(
	_ *obswire.Component,
	logger log.Logger,
	hs *http.Server,
	gs *grpc.Server,
	meta configloader.ServiceInfo,
	publisher *outboxpublisher.Runner,
	statsTask *statstasks.Task,
) *kratos.App {
	options := []kratos.Option{
		kratos.ID(meta.InstanceID),
		kratos.Name(meta.Name),
		kratos.Version(meta.Version),
		kratos.Metadata(map[string]string{"environment": meta.Environment}),
		kratos.Logger(logger),
		kratos.Server(hs, gs),
	}

	var workers []worker
	if publisher != nil {
		workers = append(workers, worker{name: "outbox publisher", run: publisher.Run})
	}
	if statsTask != nil {
		workers = append(workers, worker{name: "stats refresh", run: statsTask.Run})
	}
	if len(workers) > 0 {
		options = append(options, workerHooks(workers, log.NewHelper(logger))...)
	}
	return kratos.New(options...)
}

// workerHooks 在应用启动前拉起 worker，停止后取消并等待其退出。
func workerHooks(workers []worker, helper *log.Helper) []kratos.Option {
	var (
		wg      sync.WaitGroup
		cancels []context.CancelFunc
	)
	return []kratos.Option{
		kratos.BeforeStart(func(ctx context.Context) error {
			cancels = make([]context.CancelFunc, len(workers))
			for i, w := range workers {
				runCtx, cancel := context.WithCancel(ctx)
				cancels[i] = cancel
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := w.run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
						helper.Warnf("%s stopped: %v", w.name, err)
					}
				}()
			}
			return nil
		}),
		kratos.AfterStop(func(ctx context.Context) error {
			for _, cancel := range cancels {
				cancel()
			}
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-ctx.Done():
			case <-done:
			}
			return nil
		}),
	}
}

// newReadinessCheck 在 /readyz 上检查数据库与缓存。
func newReadinessCheck(pool *pgxpool.Pool, c *cache.Cache) httpserver.ReadinessCheck {
	return func(r *stdhttp.Request) error {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := c.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	}
}

func main() {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	flag.Parse()

	// wireApp 由 wire_gen.go 生成，依赖注入顺序见 wire.go
	app, cleanupApp, err := wireApp(ctx, configloader.Params{ConfPath: *confFlag})
	if err != nil {
		panic(err)
	}
	defer cleanupApp()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
