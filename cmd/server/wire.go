//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

//go:generate go run github.com/google/wire/cmd/wire

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/clients"
	"github.com/bionicotaku/lingo-services-captions/internal/controllers"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/cache"
	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/gcs"
	grpcserver "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/grpc_server"
	httpserver "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/http_server"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	"github.com/bionicotaku/lingo-services-captions/internal/services"
	outboxtasks "github.com/bionicotaku/lingo-services-captions/internal/tasks/outbox"
	statstasks "github.com/bionicotaku/lingo-services-captions/internal/tasks/stats"

	"github.com/bionicotaku/lingo-utils/gcjwt"
	"github.com/bionicotaku/lingo-utils/gclog"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2"
	"github.com/google/wire"
)

// storeBindings 把业务层依赖的窄接口绑定到具体实现。
var storeBindings = wire.NewSet(
	wire.Bind(new(services.CaptionStore), new(*repositories.CaptionRepository)),
	wire.Bind(new(services.VideoStore), new(*repositories.VideoRepository)),
	wire.Bind(new(services.CaptionerStore), new(*repositories.CaptionerRepository)),
	wire.Bind(new(services.CaptionerPrivateStore), new(*repositories.CaptionerPrivateRepository)),
	wire.Bind(new(services.CaptionLikesStore), new(*repositories.CaptionLikesRepository)),
	wire.Bind(new(services.RoleStore), new(*repositories.RoleRepository)),
	wire.Bind(new(services.AppConfigStore), new(*repositories.AppConfigRepository)),
	wire.Bind(new(services.StatsStore), new(*repositories.StatsRepository)),
	wire.Bind(new(services.OutboxEnqueuer), new(*repositories.OutboxRepository)),
	wire.Bind(new(services.RawFileStore), new(*gcs.Store)),
	wire.Bind(new(services.JSONCache), new(*cache.Cache)),
	wire.Bind(new(services.TitleFetcher), new(*clients.OEmbedClient)),
	wire.Bind(new(services.TrackLister), new(*clients.TimedTextClient)),
)

// useCaseBindings 把控制器依赖的用例接口绑定到业务服务。
var useCaseBindings = wire.NewSet(
	wire.Bind(new(controllers.CaptionUseCases), new(*services.CaptionService)),
	wire.Bind(new(controllers.VoteUseCases), new(*services.VoteService)),
	wire.Bind(new(controllers.ReviewUseCases), new(*services.ReviewService)),
	wire.Bind(new(controllers.DiscoveryUseCases), new(*services.DiscoveryService)),
	wire.Bind(new(controllers.SearchUseCases), new(*services.SearchService)),
	wire.Bind(new(controllers.ProfileUseCases), new(*services.ProfileService)),
	wire.Bind(new(controllers.RoleUseCases), new(*services.RoleService)),
	wire.Bind(new(controllers.TagUseCases), new(*services.TagService)),
	wire.Bind(new(controllers.StatsUseCases), new(*services.StatsService)),
	wire.Bind(new(controllers.AutoCaptionUseCases), new(*services.AutoCaptionService)),
	wire.Bind(new(controllers.MigrationUseCases), new(*services.MigrationService)),
	wire.Bind(new(controllers.AuthResolver), new(*services.ProfileResolver)),
	wire.Bind(new(controllers.ModeReader), new(*services.ModeService)),
	wire.Struct(new(controllers.UseCases), "*"),
	wire.Bind(new(httpserver.RouteRegistrar), new(*controllers.Router)),
)

// wireApp 构建整个 Kratos 应用。
//
// 依赖注入顺序:
//  1. 配置加载: configloader.ProviderSet 解析配置并派生组件配置
//  2. 基础设施: gclog → observability → gcjwt → pgxpoolx → txmanager → gcpubsub → redis → gcs
//  3. 业务层: repositories → clients → services → controllers
//  4. 服务器: HTTP API 与 gRPC 健康检查
//  5. 后台任务: outbox 发布器与 globalStats 刷新
func wireApp(context.Context, configloader.Params) (*kratos.App, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		gclog.ProviderSet,
		gcjwt.ProviderSet,
		obswire.ProviderSet,
		pgxpoolx.ProviderSet,
		txmanager.ProviderSet,
		gcpubsub.ProviderSet,
		cache.ProviderSet,
		gcs.ProviderSet,
		repositories.ProviderSet,
		clients.ProviderSet,
		storeBindings,
		services.ProviderSet,
		useCaseBindings,
		controllers.ProviderSet,
		newReadinessCheck,
		httpserver.ProviderSet,
		grpcserver.ProviderSet,
		outboxtasks.ProvideRunner,
		statstasks.ProvideTask,
		newApp,
	))
}
