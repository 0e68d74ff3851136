package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	outboxevents "github.com/bionicotaku/lingo-services-captions/internal/models/outbox_events"

	outboxpkg "github.com/bionicotaku/lingo-utils/outbox"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// captionsSchema 是 outbox_events 与 inbox_events 所在的 schema，配置为空时使用。
const captionsSchema = "captions"

// OutboxMessage 描述需要写入 outbox_events 的事件数据。
type OutboxMessage = store.Message

// ErrForeignAggregate 表示消息不属于字幕聚合，拒绝写入本服务的 outbox。
var ErrForeignAggregate = errors.New("repositories: not a caption aggregate")

func openEventStore(db *pgxpool.Pool, logger log.Logger, cfg outboxcfg.Config) (*store.Repository, string, error) {
	if db == nil {
		return nil, "", errors.New("repositories: event store requires a pgx pool")
	}
	schema := strings.TrimSpace(cfg.Schema)
	if schema == "" {
		schema = captionsSchema
	}
	repo, err := outboxpkg.NewRepository(db, logger, outboxpkg.RepositoryOptions{Schema: schema})
	if err != nil {
		return nil, "", fmt.Errorf("open %s event store: %w", schema, err)
	}
	return repo, schema, nil
}

// OutboxRepository 负责字幕领域事件的入库，发布由 outbox runner 通过 Shared 完成。
type OutboxRepository struct {
	delegate *store.Repository
	schema   string
	log      *log.Helper
}

// NewOutboxRepository 构建绑定 captions schema 的 Outbox 仓储。
func NewOutboxRepository(db *pgxpool.Pool, logger log.Logger, cfg outboxcfg.Config) (*OutboxRepository, error) {
	repo, schema, err := openEventStore(db, logger, cfg)
	if err != nil {
		return nil, err
	}
	return &OutboxRepository{
		delegate: repo,
		schema:   schema,
		log:      log.NewHelper(log.With(logger, "component", "repositories.outbox")),
	}, nil
}

// Enqueue 在业务事务内写入字幕事件；AvailableAt 为空时立即可发布。
func (r *OutboxRepository) Enqueue(ctx context.Context, sess txmanager.Session, msg OutboxMessage) error {
	if msg.AggregateType != outboxevents.AggregateTypeCaption {
		return fmt.Errorf("%w: %q", ErrForeignAggregate, msg.AggregateType)
	}
	if msg.EventID == uuid.Nil || msg.AggregateID == uuid.Nil || msg.EventType == "" {
		return fmt.Errorf("repositories: outbox message requires event id, caption id and type")
	}
	if msg.AvailableAt.IsZero() {
		msg.AvailableAt = time.Now().UTC()
	}
	if err := r.delegate.Enqueue(ctx, sess, msg); err != nil {
		return fmt.Errorf("enqueue %s into %s.outbox_events: %w", msg.EventType, r.schema, err)
	}
	r.log.WithContext(ctx).Debugf("caption event enqueued: type=%s caption=%s", msg.EventType, msg.AggregateID)
	return nil
}

// CountPending 返回尚未发布的字幕事件数量。
func (r *OutboxRepository) CountPending(ctx context.Context) (int64, error) {
	return r.delegate.CountPending(ctx)
}

// Schema 返回事件表所在 schema。
func (r *OutboxRepository) Schema() string {
	return r.schema
}

// Shared 返回底层通用实现，供 outbox runner 使用。
func (r *OutboxRepository) Shared() *store.Repository {
	return r.delegate
}

// InboxRepository 记录账号服务投递的外部事件，去重与状态由 inbox runner 维护。
type InboxRepository struct {
	delegate *store.Repository
	schema   string
}

// NewInboxRepository 构建与 Outbox 共用 schema 的 Inbox 仓储。
func NewInboxRepository(db *pgxpool.Pool, logger log.Logger, cfg outboxcfg.Config) (*InboxRepository, error) {
	repo, schema, err := openEventStore(db, logger, cfg)
	if err != nil {
		return nil, err
	}
	return &InboxRepository{delegate: repo, schema: schema}, nil
}

// Schema 返回事件表所在 schema。
func (r *InboxRepository) Schema() string {
	return r.schema
}

// Shared 暴露底层共享仓储，供 inbox runner 使用。
func (r *InboxRepository) Shared() *store.Repository {
	return r.delegate
}
