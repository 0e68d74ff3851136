package outboxevents

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind 标识领域事件类型。
type Kind int

// 领域事件类型常量。
const (
	// KindUnknown 表示未识别的事件类型。
	KindUnknown Kind = iota
	// KindCaptionSubmitted 表示新字幕提交。
	KindCaptionSubmitted
	// KindCaptionUpdated 表示字幕内容或属性更新。
	KindCaptionUpdated
	// KindCaptionDeleted 表示字幕被删除。
	KindCaptionDeleted
	// KindCaptionReviewed 表示审核状态变化。
	KindCaptionReviewed
	// KindCaptionVoted 表示赞踩计数变化。
	KindCaptionVoted
)

func (k Kind) String() string {
	switch k {
	case KindCaptionSubmitted:
		return "caption.submitted"
	case KindCaptionUpdated:
		return "caption.updated"
	case KindCaptionDeleted:
		return "caption.deleted"
	case KindCaptionReviewed:
		return "caption.reviewed"
	case KindCaptionVoted:
		return "caption.voted"
	default:
		return "caption.event.unknown"
	}
}

// DomainEvent 表示领域层生成的标准事件。
type DomainEvent struct {
	EventID       uuid.UUID
	Kind          Kind
	AggregateID   uuid.UUID
	AggregateType string
	Version       int64
	OccurredAt    time.Time
	Routing       CaptionRouting
	Payload       any
}

// CaptionRouting 是写入消息属性的字幕路由信息，未知字段留空。
type CaptionRouting struct {
	VideoID     string
	VideoSource string
	Language    string
	CreatorID   string
}

// CaptionSubmitted 描述字幕提交事件载荷。
type CaptionSubmitted struct {
	CaptionID   string `json:"captionId"`
	CreatorID   string `json:"creatorId"`
	VideoID     string `json:"videoId"`
	VideoSource string `json:"videoSource"`
	Language    string `json:"language"`
	Privacy     int16  `json:"privacy"`
	HasRawFile  bool   `json:"hasRawFile"`
	OccurredAt  string `json:"occurredAt"`
}

// CaptionUpdated 描述字幕更新事件载荷。
type CaptionUpdated struct {
	CaptionID      string   `json:"captionId"`
	CreatorID      string   `json:"creatorId"`
	Privacy        int16    `json:"privacy"`
	PrivacyChanged bool     `json:"privacyChanged"`
	ContentChanged bool     `json:"contentChanged"`
	Tags           []string `json:"tags"`
	OccurredAt     string   `json:"occurredAt"`
}

// CaptionDeleted 描述字幕删除事件载荷。
type CaptionDeleted struct {
	CaptionID   string `json:"captionId"`
	CreatorID   string `json:"creatorId"`
	DeletedBy   string `json:"deletedBy"`
	VideoID     string `json:"videoId"`
	VideoSource string `json:"videoSource"`
	Language    string `json:"language"`
	OccurredAt  string `json:"occurredAt"`
}

// CaptionReviewed 描述审核事件载荷。
type CaptionReviewed struct {
	CaptionID  string `json:"captionId"`
	ReviewerID string `json:"reviewerId"`
	NewState   string `json:"newState"`
	Reason     string `json:"reason,omitempty"`
	Verified   bool   `json:"verified"`
	Rejected   bool   `json:"rejected"`
	OccurredAt string `json:"occurredAt"`
}

// CaptionVoted 描述赞踩事件载荷。
type CaptionVoted struct {
	CaptionID  string `json:"captionId"`
	UserID     string `json:"userId"`
	Likes      int32  `json:"likes"`
	Dislikes   int32  `json:"dislikes"`
	OccurredAt string `json:"occurredAt"`
}

const (
	// AggregateTypeCaption 标识字幕聚合类型。
	AggregateTypeCaption = "captions.caption"
	// SchemaVersionV1 描述事件载荷的当前 schema 版本。
	SchemaVersionV1 = "v1"
)

var (
	// ErrInvalidEventID 表示未提供合法的事件 ID。
	ErrInvalidEventID = fmt.Errorf("event builder: event id is required")
	// ErrUnknownEventKind 表示未识别的事件类型。
	ErrUnknownEventKind = fmt.Errorf("event builder: unknown event kind")
	// ErrNilCaption 表示未提供字幕。
	ErrNilCaption = fmt.Errorf("event builder: caption is required")
)
