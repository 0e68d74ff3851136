package services

import (
	"context"
	"errors"
	"time"

	outboxevents "github.com/bionicotaku/lingo-services-captions/internal/models/outbox_events"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	eventMeterName            = "lingo-services-captions.services.events"
	eventEnqueuedMetricName   = "captions_events_enqueued_total"
	eventFailedMetricName     = "captions_events_enqueue_failures_total"
	eventEnqueueLagMetricName = "captions_events_enqueue_lag_ms"
)

var (
	attrComponent   = attribute.Key("component")
	attrEventType   = attribute.Key("event_type")
	attrVideoSource = attribute.Key("video_source")
	attrFailure     = attribute.Key("failure")
)

// eventMetrics 按写入组件与事件类型统计字幕事件入库，仪表创建失败时静默降级。
type eventMetrics struct {
	component string
	enqueued  metric.Int64Counter
	failed    metric.Int64Counter
	lag       metric.Float64Histogram
}

func newEventMetrics(component string) *eventMetrics {
	meter := otel.GetMeterProvider().Meter(eventMeterName)
	m := &eventMetrics{component: component}
	m.enqueued, _ = meter.Int64Counter(eventEnqueuedMetricName,
		metric.WithDescription("Caption events written to the outbox"))
	m.failed, _ = meter.Int64Counter(eventFailedMetricName,
		metric.WithDescription("Caption events that could not be written to the outbox"))
	m.lag, _ = meter.Float64Histogram(eventEnqueueLagMetricName,
		metric.WithDescription("Delay between the caption change and its outbox write"),
		metric.WithUnit("ms"))
	return m
}

func (m *eventMetrics) attrs(evt *outboxevents.DomainEvent, extra ...attribute.KeyValue) metric.MeasurementOption {
	kv := []attribute.KeyValue{
		attrComponent.String(m.component),
		attrEventType.String(evt.Kind.String()),
	}
	if source := evt.Routing.VideoSource; source != "" {
		kv = append(kv, attrVideoSource.String(source))
	}
	return metric.WithAttributes(append(kv, extra...)...)
}

func (m *eventMetrics) recordEnqueued(ctx context.Context, evt *outboxevents.DomainEvent) {
	if m == nil || m.enqueued == nil {
		return
	}
	opt := m.attrs(evt)
	m.enqueued.Add(ctx, 1, opt)
	if m.lag != nil && !evt.OccurredAt.IsZero() {
		m.lag.Record(ctx, float64(max(time.Since(evt.OccurredAt).Milliseconds(), 0)), opt)
	}
}

func (m *eventMetrics) recordFailure(ctx context.Context, evt *outboxevents.DomainEvent, err error) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.Add(ctx, 1, m.attrs(evt, attrFailure.String(failureKind(err))))
}

// failureKind 把入库错误归为有限的几类，避免高基数标签。
func failureKind(err error) string {
	switch {
	case errors.Is(err, outboxevents.ErrUnknownEventKind):
		return "encode"
	case errors.Is(err, repositories.ErrForeignAggregate):
		return "foreign_aggregate"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "store"
	}
}
