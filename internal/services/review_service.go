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

// ReviewAction 是审核员对字幕的操作。
type ReviewAction int

// 审核操作。
const (
	ReviewVerify ReviewAction = iota
	ReviewReject
)

// ReviewService 实现 verify/reject 状态机：
// unreviewed|rejected --verify--> verified --verify--> unreviewed，
// unreviewed|verified --reject--> rejected --reject--> unreviewed。
type ReviewService struct {
	captions  CaptionStore
	profiles  *ProfileResolver
	events    *eventWriter
	txManager txmanager.Manager
	log       *log.Helper
}

// NewReviewService 构造 ReviewService。
func NewReviewService(captions CaptionStore, profiles *ProfileResolver, outbox OutboxEnqueuer, tx txmanager.Manager, logger log.Logger) *ReviewService {
	helper := log.NewHelper(logger)
	return &ReviewService{
		captions:  captions,
		profiles:  profiles,
		events:    newEventWriter(outbox, "review", helper),
		txManager: tx,
		log:       helper,
	}
}

// Verify 切换字幕的已验证状态。
func (s *ReviewService) Verify(ctx context.Context, auth metadata.AuthContext, captionID, reason string) (*vo.ReviewResult, error) {
	return s.review(ctx, auth, captionID, reason, ReviewVerify)
}

// Reject 切换字幕的驳回状态。
func (s *ReviewService) Reject(ctx context.Context, auth metadata.AuthContext, captionID, reason string) (*vo.ReviewResult, error) {
	return s.review(ctx, auth, captionID, reason, ReviewReject)
}

func (s *ReviewService) review(ctx context.Context, auth metadata.AuthContext, rawCaptionID, reason string, action ReviewAction) (*vo.ReviewResult, error) {
	if !auth.Authenticated() {
		return nil, errNotLoggedIn()
	}
	if !auth.Roles.CanReview() {
		return nil, errDenied(MsgNotAuthorized)
	}
	captionID, ok := parseID(rawCaptionID)
	if !ok {
		return nil, errNotFound(MsgNoSuchCaption)
	}

	var result vo.ReviewResult
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		caption, err := s.captions.GetForUpdate(txCtx, sess, captionID)
		if err != nil {
			if isCaptionNotFound(err) {
				return errNotFound(MsgNoSuchCaption)
			}
			return err
		}
		reviewer, err := s.profiles.Captioner(txCtx, sess, auth.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		verified, rejected, state := NextReviewState(caption, action)
		entry := po.ReviewEntry{
			ReviewerID: auth.UserID.String(),
			NewState:   state,
			Reason:     reason,
			Date:       now.Unix(),
		}
		if reviewer != nil {
			entry.ReviewerName = reviewer.Name
		}
		updated, err := s.captions.ApplyReview(txCtx, sess, captionID, verified, rejected, entry)
		if err != nil {
			return err
		}
		result = vo.ReviewResult{Verified: updated.Verified, Rejected: updated.IsRejected(), NewState: state}
		evt, buildErr := outboxevents.NewCaptionReviewedEvent(updated, entry, uuid.New(), now)
		return s.events.enqueue(txCtx, sess, evt, buildErr)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Infof("caption reviewed: id=%s reviewer=%s state=%s", captionID, auth.UserID, result.NewState)
	return &result, nil
}

// NextReviewState 计算审核操作后的 verified/rejected 及写入历史的 newState。
// 验证会清除驳回，驳回会清除验证，两者永不同时为真。
func NextReviewState(caption *po.Caption, action ReviewAction) (verified, rejected bool, state string) {
	switch action {
	case ReviewReject:
		if caption.IsRejected() {
			return caption.Verified, false, po.ReviewStateUnrejected
		}
		return false, true, po.ReviewStateRejected
	default:
		if caption.Verified {
			return false, caption.IsRejected(), po.ReviewStateUnverified
		}
		return true, false, po.ReviewStateVerified
	}
}
