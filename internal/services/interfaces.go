package services

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
)

// CaptionStore 抽象字幕仓储。
type CaptionStore interface {
	Create(ctx context.Context, sess txmanager.Session, input repositories.CreateCaptionInput) (*po.Caption, error)
	Get(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Caption, error)
	GetForUpdate(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Caption, error)
	CountForCreatorLanguage(ctx context.Context, sess txmanager.Session, creatorID uuid.UUID, videoID, videoSource, language string) (int, error)
	List(ctx context.Context, sess txmanager.Session, plan captionquery.Plan) ([]po.CaptionWithJoins, error)
	Count(ctx context.Context, sess txmanager.Session, plan captionquery.Plan) (int64, error)
	IncrementViews(ctx context.Context, sess txmanager.Session, id uuid.UUID) error
	Update(ctx context.Context, sess txmanager.Session, id uuid.UUID, input repositories.UpdateCaptionInput) (*po.Caption, error)
	AdjustVotes(ctx context.Context, sess txmanager.Session, id uuid.UUID, likesDelta, dislikesDelta int32) (likes, dislikes int32, err error)
	ApplyReview(ctx context.Context, sess txmanager.Session, id uuid.UUID, verified, rejected bool, entry po.ReviewEntry) (*po.Caption, error)
	Delete(ctx context.Context, sess txmanager.Session, id uuid.UUID) error
	RemoveTagsMatching(ctx context.Context, sess txmanager.Session, creatorID uuid.UUID, pattern string) (int64, error)
}

// VideoStore 抽象视频仓储。
type VideoStore interface {
	Get(ctx context.Context, sess txmanager.Session, sourceID, source string) (*po.Video, error)
	Create(ctx context.Context, sess txmanager.Session, input repositories.CreateVideoInput) (*po.Video, bool, error)
	CreateBatch(ctx context.Context, sess txmanager.Session, inputs []repositories.CreateVideoInput) (int, error)
	IncrementCaptionCount(ctx context.Context, sess txmanager.Session, sourceID, source, language string) (bool, error)
	DecrementCaptionCount(ctx context.Context, sess txmanager.Session, sourceID, source, language string) (bool, error)
	Search(ctx context.Context, sess txmanager.Session, plan captionquery.SearchPlan) ([]po.Video, error)
}

// CaptionerStore 抽象作者档案仓储。
type CaptionerStore interface {
	Create(ctx context.Context, sess txmanager.Session, input repositories.CreateCaptionerInput) (*po.Captioner, bool, error)
	GetByUserID(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.Captioner, error)
	GetByID(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Captioner, error)
	UpdateProfile(ctx context.Context, sess txmanager.Session, userID uuid.UUID, input repositories.UpdateCaptionerProfileInput) (*po.Captioner, error)
	NameTagTaken(ctx context.Context, sess txmanager.Session, name string, nameTag int32, exclude uuid.UUID) (bool, error)
	SetName(ctx context.Context, sess txmanager.Session, userID uuid.UUID, name string, nameTag int32) error
	SetVerified(ctx context.Context, sess txmanager.Session, userID uuid.UUID, verified bool) error
	SetBanned(ctx context.Context, sess txmanager.Session, userID uuid.UUID, banned bool) error
	TouchLastSubmission(ctx context.Context, sess txmanager.Session, userID uuid.UUID, at time.Time) (bool, error)
	AdjustCaptionCount(ctx context.Context, sess txmanager.Session, userID uuid.UUID, delta int32) (bool, error)
	AppendCaptionTags(ctx context.Context, sess txmanager.Session, userID uuid.UUID, tags []string) error
	SetCaptionTags(ctx context.Context, sess txmanager.Session, userID uuid.UUID, tags []string) error
}

// CaptionerPrivateStore 抽象作者私有资料仓储。
type CaptionerPrivateStore interface {
	Upsert(ctx context.Context, sess txmanager.Session, captionerID uuid.UUID, email string) error
	Get(ctx context.Context, sess txmanager.Session, captionerID uuid.UUID) (*po.CaptionerPrivate, error)
	FindByEmail(ctx context.Context, sess txmanager.Session, email string) (*po.CaptionerPrivate, error)
}

// CaptionLikesStore 抽象用户投票记录仓储。
type CaptionLikesStore interface {
	Get(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.CaptionLikes, error)
	GetOrCreateForUpdate(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.CaptionLikes, error)
	Save(ctx context.Context, sess txmanager.Session, likes *po.CaptionLikes) error
}

// RoleStore 抽象角色仓储。
type RoleStore interface {
	ListRoles(ctx context.Context, sess txmanager.Session, userID uuid.UUID) ([]string, error)
	HasRole(ctx context.Context, sess txmanager.Session, userID uuid.UUID, role po.Role) (bool, error)
	Grant(ctx context.Context, sess txmanager.Session, userID uuid.UUID, role po.Role) error
	Revoke(ctx context.Context, sess txmanager.Session, userID uuid.UUID, role po.Role) error
}

// AppConfigStore 抽象持久化的运行开关。
type AppConfigStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

// StatsStore 抽象全站聚合查询。
type StatsStore interface {
	TotalViews(ctx context.Context) (int64, error)
	TotalCaptions(ctx context.Context) (int64, error)
	ViewsPerLanguage(ctx context.Context) ([]po.LanguageTotal, error)
	CaptionsPerLanguage(ctx context.Context) ([]po.LanguageTotal, error)
}

// OutboxEnqueuer 定义写 Outbox 的接口。
type OutboxEnqueuer interface {
	Enqueue(ctx context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error
}

// RawFileStore 抽象原始字幕文件的对象存储。
type RawFileStore interface {
	NewObjectName(creatorID uuid.UUID, ext string) string
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	SignedURL(ctx context.Context, name string) (string, error)
}

// JSONCache 抽象键值缓存；未启用时 GetJSON 返回 false。
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// TitleFetcher 查询外部平台上的视频标题。
type TitleFetcher interface {
	FetchTitle(ctx context.Context, source, videoID string) (string, error)
}

// TrackLister 列出外部平台的字幕轨道。
type TrackLister interface {
	ListTracks(ctx context.Context, videoID string) ([]vo.AutoCaptionLanguage, error)
}
