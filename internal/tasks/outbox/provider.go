// Package outbox 把 captions.outbox_events 中的字幕事件发布到 Pub/Sub，
// 供 server 进程内的后台 worker 与独立任务进程共用。
package outbox

import (
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	outboxpublisher "github.com/bionicotaku/lingo-utils/outbox/publisher"
	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

const meterName = "lingo-services-captions.outbox"

// ProvideRunner 构造字幕事件发布 Runner；未配置 topic 时返回 nil，调用方据此跳过启动。
func ProvideRunner(
	repo *repositories.OutboxRepository,
	publisher gcpubsub.Publisher,
	pubCfg gcpubsub.Config,
	cfg outboxcfg.Config,
	logger log.Logger,
) *outboxpublisher.Runner {
	if repo == nil || logger == nil {
		return nil
	}
	helper := log.NewHelper(logger)
	if pubCfg.TopicID == "" {
		helper.Warn("caption outbox: topic not configured, publisher disabled")
		return nil
	}

	runnerCfg := cfg.Normalize().Publisher
	if enabled(runnerCfg.LoggingEnabled) {
		helper.Infof("caption outbox: topic=%s batch_size=%d workers=%d tick=%s max_attempts=%d",
			pubCfg.TopicID, runnerCfg.BatchSize, runnerCfg.Workers, runnerCfg.TickInterval, runnerCfg.MaxAttempts)
	}

	runner, err := outboxpublisher.NewRunner(outboxpublisher.RunnerParams{
		Store:     repo.Shared(),
		Publisher: publisher,
		Config:    runnerCfg,
		Logger:    logger,
		Meter:     runnerMeter(runnerCfg),
	})
	if err != nil {
		helper.Errorw("msg", "caption outbox: init runner failed", "error", err)
		return nil
	}
	return runner
}

func runnerMeter(cfg outboxcfg.PublisherConfig) metric.Meter {
	if !enabled(cfg.MetricsEnabled) {
		return noopmetric.NewMeterProvider().Meter(meterName)
	}
	return otel.GetMeterProvider().Meter(meterName)
}

// enabled 未显式配置时视为开启。
func enabled(flag *bool) bool {
	return flag == nil || *flag
}
