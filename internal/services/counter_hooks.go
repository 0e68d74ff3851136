package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const hookFailureMetricName = "captions_counter_hook_failures_total"

var attrHook = attribute.Key("hook")

// CounterHooks 在字幕写入后维护作者与视频上的公开字幕计数。
// 每个钩子在同一事务内以 savepoint 执行，失败只记录日志，不影响主写入。
type CounterHooks struct {
	videos     VideoStore
	captioners CaptionerStore
	files      RawFileStore
	log        *log.Helper
	failures   metric.Int64Counter
}

// NewCounterHooks 构造 CounterHooks。
func NewCounterHooks(videos VideoStore, captioners CaptionerStore, files RawFileStore, logger log.Logger) *CounterHooks {
	failures, err := otel.GetMeterProvider().Meter("lingo-services-captions.services.hooks").
		Int64Counter(hookFailureMetricName, metric.WithDescription("Number of counter hook executions that failed"))
	if err != nil {
		failures = nil
	}
	return &CounterHooks{
		videos:     videos,
		captioners: captioners,
		files:      files,
		log:        log.NewHelper(logger),
		failures:   failures,
	}
}

// OnCaptionCreated 记录作者最近提交时间；公开字幕同时累加作者与视频计数。
func (h *CounterHooks) OnCaptionCreated(ctx context.Context, sess txmanager.Session, caption *po.Caption, at time.Time) {
	h.run(ctx, sess, "created", func(s txmanager.Session) error {
		found, err := h.captioners.TouchLastSubmission(ctx, s, caption.CreatorID, at)
		if err != nil {
			return fmt.Errorf("touch last submission: %w", err)
		}
		if !found {
			h.log.WithContext(ctx).Debugf("skip last submission: captioner missing user=%s", caption.CreatorID)
		}
		if !caption.IsPublic() {
			return nil
		}
		return h.adjust(ctx, s, caption, 1)
	})
}

// OnCaptionImported 为迁移导入的字幕累加计数，不记录提交时间。
func (h *CounterHooks) OnCaptionImported(ctx context.Context, sess txmanager.Session, caption *po.Caption) {
	if !caption.IsPublic() {
		return
	}
	h.run(ctx, sess, "imported", func(s txmanager.Session) error {
		return h.adjust(ctx, s, caption, 1)
	})
}

// OnCaptionPrivacyChanged 在公开状态翻转时调整计数，状态不变时不做任何事。
func (h *CounterHooks) OnCaptionPrivacyChanged(ctx context.Context, sess txmanager.Session, before, after *po.Caption) {
	wasPublic, isPublic := before.IsPublic(), after.IsPublic()
	if wasPublic == isPublic {
		return
	}
	delta := int32(1)
	if wasPublic {
		delta = -1
	}
	h.run(ctx, sess, "privacy", func(s txmanager.Session) error {
		return h.adjust(ctx, s, after, delta)
	})
}

// OnCaptionDeleted 公开字幕被删除时递减计数。
func (h *CounterHooks) OnCaptionDeleted(ctx context.Context, sess txmanager.Session, caption *po.Caption) {
	if !caption.IsPublic() {
		return
	}
	h.run(ctx, sess, "deleted", func(s txmanager.Session) error {
		return h.adjust(ctx, s, caption, -1)
	})
}

// ReleaseRawFile 在事务提交后尽力删除原始文件。
func (h *CounterHooks) ReleaseRawFile(ctx context.Context, name *string) {
	if name == nil || *name == "" || h.files == nil {
		return
	}
	if err := h.files.Delete(ctx, *name); err != nil {
		h.log.WithContext(ctx).Warnf("release raw caption file failed: object=%s err=%v", *name, err)
		h.recordFailure(ctx, "release_file")
	}
}

func (h *CounterHooks) adjust(ctx context.Context, sess txmanager.Session, caption *po.Caption, delta int32) error {
	found, err := h.captioners.AdjustCaptionCount(ctx, sess, caption.CreatorID, delta)
	if err != nil {
		return fmt.Errorf("adjust captioner count: %w", err)
	}
	if !found {
		h.log.WithContext(ctx).Debugf("skip captioner count: captioner missing user=%s", caption.CreatorID)
	}

	if delta > 0 {
		found, err = h.videos.IncrementCaptionCount(ctx, sess, caption.VideoID, caption.VideoSource, caption.Language)
	} else {
		found, err = h.videos.DecrementCaptionCount(ctx, sess, caption.VideoID, caption.VideoSource, caption.Language)
	}
	if err != nil {
		return fmt.Errorf("adjust video count: %w", err)
	}
	if !found {
		h.log.WithContext(ctx).Debugf("skip video count: video missing source=%s id=%s", caption.VideoSource, caption.VideoID)
	}
	return nil
}

func (h *CounterHooks) run(ctx context.Context, sess txmanager.Session, hook string, fn func(txmanager.Session) error) {
	target := sess
	var savepoint pgx.Tx
	if sess != nil && sess.Tx() != nil {
		nested, err := sess.Tx().Begin(ctx)
		if err != nil {
			h.log.WithContext(ctx).Errorf("counter hook %s: open savepoint: %v", hook, err)
			h.recordFailure(ctx, hook)
			return
		}
		savepoint = nested
		target = savepointSession{tx: nested, ctx: ctx}
	}

	if err := fn(target); err != nil {
		if savepoint != nil {
			if rbErr := savepoint.Rollback(ctx); rbErr != nil {
				h.log.WithContext(ctx).Errorf("counter hook %s: rollback savepoint: %v", hook, rbErr)
			}
		}
		h.log.WithContext(ctx).Errorf("counter hook %s failed: %v", hook, err)
		h.recordFailure(ctx, hook)
		return
	}
	if savepoint != nil {
		if err := savepoint.Commit(ctx); err != nil {
			h.log.WithContext(ctx).Errorf("counter hook %s: release savepoint: %v", hook, err)
			h.recordFailure(ctx, hook)
		}
	}
}

func (h *CounterHooks) recordFailure(ctx context.Context, hook string) {
	if h.failures == nil {
		return
	}
	h.failures.Add(ctx, 1, metric.WithAttributes(attrHook.String(hook)))
}

// savepointSession 让仓储在嵌套事务（savepoint）上执行。
type savepointSession struct {
	tx  pgx.Tx
	ctx context.Context
}

func (s savepointSession) Tx() pgx.Tx { return s.tx }

func (s savepointSession) Context() context.Context { return s.ctx }
