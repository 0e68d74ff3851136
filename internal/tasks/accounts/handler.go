package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// CaptionerStore 是新建作者档案所需的仓储能力。
type CaptionerStore interface {
	Create(ctx context.Context, sess txmanager.Session, input repositories.CreateCaptionerInput) (*po.Captioner, bool, error)
}

// PrivateStore 写入作者私有资料。
type PrivateStore interface {
	Upsert(ctx context.Context, sess txmanager.Session, captionerID uuid.UUID, email string) error
}

// EventHandler 把账号事件落地为 captioners 与 captioner_private 记录。
type EventHandler struct {
	captioners CaptionerStore
	privates   PrivateStore
	log        *log.Helper
	metrics    *inboxMetrics
	clock      func() time.Time
}

// NewEventHandler 构造事件处理器，metrics 可为 nil。
func NewEventHandler(captioners CaptionerStore, privates PrivateStore, logger log.Logger, metrics *inboxMetrics) *EventHandler {
	return &EventHandler{
		captioners: captioners,
		privates:   privates,
		log:        log.NewHelper(logger),
		metrics:    metrics,
		clock:      time.Now,
	}
}

// Handle 实现 inbox.Handler。重复投递时已存在的档案保持不变，仅刷新邮箱。
func (h *EventHandler) Handle(ctx context.Context, sess txmanager.Session, evt *Event, _ *store.InboxEvent) error {
	if evt == nil {
		return fmt.Errorf("accounts: nil event")
	}
	if evt.EventType != EventTypeUserCreated {
		h.log.WithContext(ctx).Debugw("msg", "accounts: skip unsupported event", "event_type", evt.EventType, "event_id", evt.EventID)
		return nil
	}

	if err := h.handleCreated(ctx, sess, evt); err != nil {
		h.metrics.recordFailure(ctx, evt.EventType)
		return err
	}
	h.metrics.recordSuccess(ctx, evt.EventType, evt.OccurredAt, h.clock())
	return nil
}

func (h *EventHandler) handleCreated(ctx context.Context, sess txmanager.Session, evt *Event) error {
	userID, err := uuid.Parse(evt.UserID)
	if err != nil {
		return fmt.Errorf("accounts: parse user_id: %w", err)
	}

	captioner, created, err := h.captioners.Create(ctx, sess, repositories.CreateCaptionerInput{
		ID:      userID,
		UserID:  &userID,
		NameTag: po.PlaceholderNameTag,
	})
	if err != nil {
		return fmt.Errorf("accounts: create captioner: %w", err)
	}
	if err := h.privates.Upsert(ctx, sess, captioner.ID, evt.Email); err != nil {
		return fmt.Errorf("accounts: upsert private data: %w", err)
	}

	h.log.WithContext(ctx).Infow("msg", "accounts: captioner provisioned", "user_id", userID, "captioner_id", captioner.ID, "created", created)
	return nil
}

// WithClock 替换处理器使用的时间源。
func (h *EventHandler) WithClock(fn func() time.Time) {
	if h == nil || fn == nil {
		return
	}
	h.clock = fn
}
