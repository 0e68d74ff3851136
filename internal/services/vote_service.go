package services

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	outboxevents "github.com/bionicotaku/lingo-services-captions/internal/models/outbox_events"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

type voteKind int

const (
	voteLike voteKind = iota
	voteDislike
)

// VoteService 处理赞与踩的切换。
type VoteService struct {
	captions  CaptionStore
	likes     CaptionLikesStore
	events    *eventWriter
	txManager txmanager.Manager
	log       *log.Helper
}

// NewVoteService 构造 VoteService。
func NewVoteService(captions CaptionStore, likes CaptionLikesStore, outbox OutboxEnqueuer, tx txmanager.Manager, logger log.Logger) *VoteService {
	helper := log.NewHelper(logger)
	return &VoteService{
		captions:  captions,
		likes:     likes,
		events:    newEventWriter(outbox, "vote", helper),
		txManager: tx,
		log:       helper,
	}
}

// Like 切换点赞：已赞则取消，已踩则改为赞。
func (s *VoteService) Like(ctx context.Context, auth metadata.AuthContext, captionID string) (*vo.VoteResult, error) {
	return s.vote(ctx, auth, captionID, voteLike)
}

// Dislike 切换点踩：已踩则取消，已赞则改为踩。
func (s *VoteService) Dislike(ctx context.Context, auth metadata.AuthContext, captionID string) (*vo.VoteResult, error) {
	return s.vote(ctx, auth, captionID, voteDislike)
}

func (s *VoteService) vote(ctx context.Context, auth metadata.AuthContext, rawCaptionID string, kind voteKind) (*vo.VoteResult, error) {
	if !auth.Authenticated() {
		return nil, errNotLoggedIn()
	}
	captionID, ok := parseID(rawCaptionID)
	if !ok {
		return nil, errNotFound(MsgNoSuchCaption)
	}

	var result vo.VoteResult
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		caption, err := s.captions.GetForUpdate(txCtx, sess, captionID)
		if err != nil {
			if isCaptionNotFound(err) {
				return errNotFound(MsgNoSuchCaption)
			}
			return err
		}
		if caption.CreatorID == auth.UserID {
			if kind == voteLike {
				return errValidation(MsgSelfLike)
			}
			return errValidation(MsgSelfDislike)
		}

		record, err := s.likes.GetOrCreateForUpdate(txCtx, sess, auth.UserID)
		if err != nil {
			return err
		}
		likesDelta, dislikesDelta := applyVote(record, captionID, kind)
		if err := s.likes.Save(txCtx, sess, record); err != nil {
			return err
		}
		likes, dislikes, err := s.captions.AdjustVotes(txCtx, sess, captionID, likesDelta, dislikesDelta)
		if err != nil {
			return err
		}
		result = vo.VoteResult{
			Likes:       likes,
			Dislikes:    dislikes,
			UserLike:    containsID(record.Likes, captionID),
			UserDislike: containsID(record.Dislikes, captionID),
		}
		evt, buildErr := outboxevents.NewCaptionVotedEvent(captionID, auth.UserID, likes, dislikes, uuid.New(), time.Now().UTC())
		return s.events.enqueue(txCtx, sess, evt, buildErr)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// applyVote 按切换规则修改用户的赞踩列表，返回字幕计数的增量。
// 同一字幕 ID 不会同时出现在两个列表中。
func applyVote(record *po.CaptionLikes, captionID uuid.UUID, kind voteKind) (likesDelta, dislikesDelta int32) {
	same, other := &record.Likes, &record.Dislikes
	sameDelta, otherDelta := &likesDelta, &dislikesDelta
	if kind == voteDislike {
		same, other = other, same
		sameDelta, otherDelta = otherDelta, sameDelta
	}

	if containsID(*same, captionID) {
		*same = removeID(*same, captionID)
		*sameDelta = -1
		return likesDelta, dislikesDelta
	}
	if containsID(*other, captionID) {
		*other = removeID(*other, captionID)
		*otherDelta = -1
	}
	*same = append(*same, captionID)
	*sameDelta = 1
	return likesDelta, dislikesDelta
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
