package outboxevents

import (
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func routingOf(caption *po.Caption) CaptionRouting {
	return CaptionRouting{
		VideoID:     caption.VideoID,
		VideoSource: caption.VideoSource,
		Language:    caption.Language,
		CreatorID:   caption.CreatorID.String(),
	}
}

func newCaptionEvent(kind Kind, captionID, eventID uuid.UUID, occurredAt time.Time, routing CaptionRouting, payload any) (*DomainEvent, error) {
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	occurredAt = occurredAt.UTC()
	return &DomainEvent{
		EventID:       eventID,
		Kind:          kind,
		AggregateID:   captionID,
		AggregateType: AggregateTypeCaption,
		Version:       versionAt(occurredAt),
		OccurredAt:    occurredAt,
		Routing:       routing,
		Payload:       payload,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NewCaptionSubmittedEvent 构造字幕提交事件。
func NewCaptionSubmittedEvent(caption *po.Caption, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if caption == nil {
		return nil, ErrNilCaption
	}
	return newCaptionEvent(KindCaptionSubmitted, caption.ID, eventID, occurredAt, routingOf(caption), &CaptionSubmitted{
		CaptionID:   caption.ID.String(),
		CreatorID:   caption.CreatorID.String(),
		VideoID:     caption.VideoID,
		VideoSource: caption.VideoSource,
		Language:    caption.Language,
		Privacy:     int16(caption.EffectivePrivacy()),
		HasRawFile:  caption.RawFile != nil,
		OccurredAt:  formatTime(occurredAt),
	})
}

// NewCaptionUpdatedEvent 构造字幕更新事件。
func NewCaptionUpdatedEvent(before, after *po.Caption, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if before == nil || after == nil {
		return nil, ErrNilCaption
	}
	return newCaptionEvent(KindCaptionUpdated, after.ID, eventID, occurredAt, routingOf(after), &CaptionUpdated{
		CaptionID:      after.ID.String(),
		CreatorID:      after.CreatorID.String(),
		Privacy:        int16(after.EffectivePrivacy()),
		PrivacyChanged: before.EffectivePrivacy() != after.EffectivePrivacy(),
		ContentChanged: before.Content != after.Content || !sameRawFile(before.RawFile, after.RawFile),
		Tags:           after.Tags,
		OccurredAt:     formatTime(occurredAt),
	})
}

// NewCaptionDeletedEvent 构造字幕删除事件。
func NewCaptionDeletedEvent(caption *po.Caption, deletedBy uuid.UUID, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if caption == nil {
		return nil, ErrNilCaption
	}
	return newCaptionEvent(KindCaptionDeleted, caption.ID, eventID, occurredAt, routingOf(caption), &CaptionDeleted{
		CaptionID:   caption.ID.String(),
		CreatorID:   caption.CreatorID.String(),
		DeletedBy:   deletedBy.String(),
		VideoID:     caption.VideoID,
		VideoSource: caption.VideoSource,
		Language:    caption.Language,
		OccurredAt:  formatTime(occurredAt),
	})
}

// NewCaptionReviewedEvent 构造审核事件。
func NewCaptionReviewedEvent(caption *po.Caption, entry po.ReviewEntry, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if caption == nil {
		return nil, ErrNilCaption
	}
	return newCaptionEvent(KindCaptionReviewed, caption.ID, eventID, occurredAt, routingOf(caption), &CaptionReviewed{
		CaptionID:  caption.ID.String(),
		ReviewerID: entry.ReviewerID,
		NewState:   entry.NewState,
		Reason:     entry.Reason,
		Verified:   caption.Verified,
		Rejected:   caption.IsRejected(),
		OccurredAt: formatTime(occurredAt),
	})
}

// NewCaptionVotedEvent 构造赞踩事件。
func NewCaptionVotedEvent(captionID, userID uuid.UUID, likes, dislikes int32, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if captionID == uuid.Nil {
		return nil, fmt.Errorf("vote event: caption_id required")
	}
	return newCaptionEvent(KindCaptionVoted, captionID, eventID, occurredAt, CaptionRouting{}, &CaptionVoted{
		CaptionID:  captionID.String(),
		UserID:     userID.String(),
		Likes:      likes,
		Dislikes:   dislikes,
		OccurredAt: formatTime(occurredAt),
	})
}

// EncodePayload 将事件载荷序列化为 JSON。
func EncodePayload(event *DomainEvent) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("encode payload: nil event")
	}
	if event.Kind == KindUnknown {
		return nil, ErrUnknownEventKind
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return payload, nil
}

func sameRawFile(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
