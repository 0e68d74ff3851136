package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

const (
	// GlobalStatsCacheKey 是全站统计快照的缓存键。
	GlobalStatsCacheKey = "stats:global"

	topCaptionsLimit       = 5
	statsRefreshMetricName = "captions_stats_refresh_duration_ms"
)

// StatsService 计算全站统计，并通过缓存提供快照。
type StatsService struct {
	stats    StatsStore
	captions CaptionStore
	cache    JSONCache
	ttl      time.Duration
	now      func() time.Time
	log      *log.Helper
	duration metric.Float64Histogram
}

// NewStatsService 构造 StatsService。
func NewStatsService(stats StatsStore, captions CaptionStore, cache JSONCache, cfg configloader.StatsConfig, logger log.Logger) *StatsService {
	duration, err := otel.GetMeterProvider().Meter("lingo-services-captions.services.stats").
		Float64Histogram(statsRefreshMetricName,
			metric.WithDescription("Time spent computing the global stats snapshot"),
			metric.WithUnit("ms"))
	if err != nil {
		duration = nil
	}
	return &StatsService{
		stats:    stats,
		captions: captions,
		cache:    cache,
		ttl:      cfg.CacheTTL,
		now:      time.Now,
		log:      log.NewHelper(logger),
		duration: duration,
	}
}

// Global 优先返回缓存中的快照，未命中时现场计算并回填。
func (s *StatsService) Global(ctx context.Context) (*vo.GlobalStats, error) {
	if s.cache != nil {
		var cached vo.GlobalStats
		hit, err := s.cache.GetJSON(ctx, GlobalStatsCacheKey, &cached)
		if err != nil {
			s.log.WithContext(ctx).Warnf("read stats cache failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh 重新计算快照并写入缓存。
func (s *StatsService) Refresh(ctx context.Context) (*vo.GlobalStats, error) {
	started := s.now()
	snapshot, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.duration != nil {
		s.duration.Record(ctx, float64(time.Since(started).Milliseconds()))
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, GlobalStatsCacheKey, snapshot, s.ttl); err != nil {
			s.log.WithContext(ctx).Warnf("write stats cache failed: %v", err)
		}
	}
	return snapshot, nil
}

func (s *StatsService) compute(ctx context.Context) (*vo.GlobalStats, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	snapshot := &vo.GlobalStats{GeneratedAt: now.UnixMilli()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.stats.TotalViews(gctx)
		if err != nil {
			return fmt.Errorf("total views: %w", err)
		}
		snapshot.TotalViews = total
		return nil
	})
	g.Go(func() error {
		total, err := s.stats.TotalCaptions(gctx)
		if err != nil {
			return fmt.Errorf("total captions: %w", err)
		}
		snapshot.TotalCaptions = total
		return nil
	})
	g.Go(func() error {
		rows, err := s.stats.ViewsPerLanguage(gctx)
		if err != nil {
			return fmt.Errorf("views per language: %w", err)
		}
		snapshot.ViewsPerLanguage = languageCounts(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.stats.CaptionsPerLanguage(gctx)
		if err != nil {
			return fmt.Errorf("captions per language: %w", err)
		}
		snapshot.CaptionsPerLanguage = languageCounts(rows)
		return nil
	})
	g.Go(func() error {
		top, err := s.topByViews(gctx, nil)
		if err != nil {
			return err
		}
		snapshot.PopularCaptions = top
		return nil
	})
	g.Go(func() error {
		top, err := s.topByViews(gctx, &monthStart)
		if err != nil {
			return err
		}
		snapshot.PopularCaptionsMonth = top
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *StatsService) topByViews(ctx context.Context, since *time.Time) ([]vo.CaptionListFields, error) {
	rows, err := s.captions.List(ctx, nil, captionquery.Build(captionquery.Filter{
		Limit:        topCaptionsLimit,
		Order:        captionquery.OrderViewsDesc,
		CreatedAfter: since,
	}, 0))
	if err != nil {
		return nil, fmt.Errorf("top captions by views: %w", err)
	}
	rows, _ = captionquery.TrimSentinel(rows, topCaptionsLimit)
	return vo.NewCaptionList(rows), nil
}

func languageCounts(rows []po.LanguageTotal) []vo.LanguageCount {
	out := make([]vo.LanguageCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, vo.LanguageCount{Language: row.Language, Count: row.Total})
	}
	return out
}
