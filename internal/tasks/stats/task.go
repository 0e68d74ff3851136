// Package stats 定时刷新 globalStats 快照并写入缓存，读路径命中缓存即可返回。
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Refresher 重新计算统计并回写缓存。
type Refresher interface {
	Refresh(ctx context.Context) (*vo.GlobalStats, error)
}

// Task 按 cron 表达式周期执行刷新。
type Task struct {
	refresher Refresher
	schedule  string
	timeout   time.Duration
	log       *log.Helper

	runs     metric.Int64Counter
	duration metric.Float64Histogram
}

// NewTask 构造刷新任务，schedule 使用带秒字段的六段 cron 表达式。
func NewTask(refresher Refresher, schedule string, timeout time.Duration, logger log.Logger) (*Task, error) {
	if refresher == nil {
		return nil, fmt.Errorf("stats task: refresher is required")
	}
	if _, err := cron.NewParser(cronFields).Parse(schedule); err != nil {
		return nil, fmt.Errorf("stats task: parse schedule %q: %w", schedule, err)
	}

	meter := otel.GetMeterProvider().Meter("lingo-services-captions.stats")
	runs, _ := meter.Int64Counter("stats_refresh_total", metric.WithDescription("Number of globalStats refresh runs"))
	duration, _ := meter.Float64Histogram("stats_refresh_duration_ms", metric.WithDescription("globalStats refresh latency"), metric.WithUnit("ms"))

	return &Task{
		refresher: refresher,
		schedule:  schedule,
		timeout:   timeout,
		log:       log.NewHelper(logger),
		runs:      runs,
		duration:  duration,
	}, nil
}

const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow

// Run 启动时先刷新一次，之后按计划执行，直到 ctx 取消。
func (t *Task) Run(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.refresh(ctx)

	scheduler := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(t.schedule, func() { t.refresh(ctx) }); err != nil {
		return fmt.Errorf("stats task: schedule: %w", err)
	}
	scheduler.Start()
	t.log.Infof("stats refresh scheduled: %s", t.schedule)

	<-ctx.Done()
	<-scheduler.Stop().Done()
	return ctx.Err()
}

func (t *Task) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	_, err := t.refresher.Refresh(runCtx)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		t.log.WithContext(ctx).Warnf("refresh global stats failed: %v", err)
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if t.runs != nil {
		t.runs.Add(ctx, 1, attrs)
	}
	if t.duration != nil {
		t.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
}

// ProvideTask 在配置启用时构造任务，否则返回 nil。
func ProvideTask(svc *services.StatsService, cfg configloader.StatsConfig, logger log.Logger) (*Task, error) {
	if !cfg.Enabled || svc == nil {
		log.NewHelper(logger).Info("stats refresh disabled")
		return nil, nil
	}
	return NewTask(svc, cfg.Schedule, refreshTimeout, logger)
}

const refreshTimeout = 2 * time.Minute
