package services

import (
	"context"

	outboxevents "github.com/bionicotaku/lingo-services-captions/internal/models/outbox_events"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// eventWriter 在业务事务内把领域事件写入 Outbox。
type eventWriter struct {
	outbox  OutboxEnqueuer
	metrics *eventMetrics
	log     *log.Helper
}

func newEventWriter(outbox OutboxEnqueuer, component string, logger *log.Helper) *eventWriter {
	return &eventWriter{
		outbox:  outbox,
		metrics: newEventMetrics(component),
		log:     logger,
	}
}

// enqueue 构造失败时丢弃事件并记日志；写入失败则返回错误以回滚事务。
func (w *eventWriter) enqueue(ctx context.Context, sess txmanager.Session, evt *outboxevents.DomainEvent, buildErr error) error {
	if w == nil || w.outbox == nil {
		return nil
	}
	if buildErr != nil {
		w.log.WithContext(ctx).Warnf("build domain event failed: %v", buildErr)
		return nil
	}
	if evt == nil {
		return nil
	}
	msg, err := outboxevents.ToOutboxMessage(ctx, evt)
	if err != nil {
		w.metrics.recordFailure(ctx, evt, err)
		return err
	}
	if err := w.outbox.Enqueue(ctx, sess, msg); err != nil {
		w.metrics.recordFailure(ctx, evt, err)
		return err
	}
	w.metrics.recordEnqueued(ctx, evt)
	return nil
}
