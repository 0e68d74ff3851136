package accounts

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/outbox/inbox"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// Task 封装账号事件 Inbox 消费循环。
type Task struct {
	runner  *inbox.Runner[Event]
	handler *EventHandler
}

// NewTask 构造 Inbox Runner，依赖缺失时返回 nil。
func NewTask(
	subscriber gcpubsub.Subscriber,
	inboxRepo *repositories.InboxRepository,
	captioners *repositories.CaptionerRepository,
	privates *repositories.CaptionerPrivateRepository,
	tx txmanager.Manager,
	logger log.Logger,
	cfg outboxcfg.InboxConfig,
) *Task {
	if subscriber == nil || inboxRepo == nil || captioners == nil || privates == nil || tx == nil {
		return nil
	}

	handler := NewEventHandler(captioners, privates, logger, newInboxMetrics())
	runner, err := inbox.NewRunner[Event](inbox.RunnerParams[Event]{
		Store:      inboxRepo.Shared(),
		Subscriber: subscriber,
		TxManager:  tx,
		Decoder:    newEventDecoder(),
		Handler:    handler,
		Config:     cfg.Normalize(),
		Logger:     logger,
	})
	if err != nil {
		log.NewHelper(logger).Errorw("msg", "accounts inbox: init runner failed", "error", err)
		return nil
	}

	task := &Task{runner: runner, handler: handler}
	task.WithClock(time.Now)
	return task
}

// Run 启动消费循环，直到 ctx 取消。
func (t *Task) Run(ctx context.Context) error {
	if t == nil || t.runner == nil {
		return nil
	}
	return t.runner.Run(ctx)
}

// WithClock 提供测试替换时间。
func (t *Task) WithClock(fn func() time.Time) {
	if t == nil || t.runner == nil || fn == nil {
		return
	}
	t.runner.WithClock(fn)
	t.handler.WithClock(fn)
}
