// Package outboxevents 定义字幕聚合的领域事件，并负责把事件转换为 Outbox 消息。
// 消息属性携带视频与语言，订阅方可以按属性过滤而无需解码载荷。
package outboxevents

import (
	"context"
	"strconv"
	"time"

	"github.com/bionicotaku/lingo-utils/outbox/store"
	"go.opentelemetry.io/otel/trace"
)

// 消息属性键。
const (
	AttrEventID       = "event_id"
	AttrEventType     = "event_type"
	AttrCaptionID     = "caption_id"
	AttrAggregateType = "aggregate_type"
	AttrVersion       = "version"
	AttrOccurredAt    = "occurred_at"
	AttrSchemaVersion = "schema_version"
	AttrTraceID       = "trace_id"
	AttrVideoID       = "video_id"
	AttrVideoSource   = "video_source"
	AttrLanguage      = "language"
	AttrCreatorID     = "creator_id"
)

// BuildAttributes 构造 Pub/Sub message attributes，空的路由字段不写入。
func BuildAttributes(ctx context.Context, event *DomainEvent) map[string]string {
	attrs := map[string]string{
		AttrEventID:       event.EventID.String(),
		AttrEventType:     event.Kind.String(),
		AttrCaptionID:     event.AggregateID.String(),
		AttrAggregateType: event.AggregateType,
		AttrVersion:       strconv.FormatInt(event.Version, 10),
		AttrOccurredAt:    event.OccurredAt.UTC().Format(time.RFC3339Nano),
		AttrSchemaVersion: SchemaVersionV1,
	}
	optional := map[string]string{
		AttrVideoID:     event.Routing.VideoID,
		AttrVideoSource: event.Routing.VideoSource,
		AttrLanguage:    event.Routing.Language,
		AttrCreatorID:   event.Routing.CreatorID,
		AttrTraceID:     traceIDFromContext(ctx),
	}
	for k, v := range optional {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}

// ToOutboxMessage 编码载荷并生成待入库的 Outbox 消息，可用时间即事件发生时间。
func ToOutboxMessage(ctx context.Context, event *DomainEvent) (store.Message, error) {
	payload, err := EncodePayload(event)
	if err != nil {
		return store.Message{}, err
	}
	return store.Message{
		EventID:       event.EventID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.Kind.String(),
		Payload:       payload,
		Headers:       BuildAttributes(ctx, event),
		AvailableAt:   event.OccurredAt,
	}, nil
}

func traceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// versionAt 以 UTC 微秒时间作为聚合版本号。
func versionAt(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMicro()
}
