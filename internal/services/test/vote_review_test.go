package services_test

import (
	"context"
	"testing"

	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/services"
	"github.com/bionicotaku/lingo-services-captions/internal/services/mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestVoteToggles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice")
	voter := env.captioner("bob")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	svc := services.NewVoteService(env.captions, env.likes, nil, fakeTxManager{}, env.logger)
	id := caption.ID.String()

	res, err := svc.Like(ctx, voter, id)
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Likes)
	require.True(t, res.UserLike)
	require.False(t, res.UserDislike)

	// 已赞后点踩：赞 -1，踩 +1。
	res, err = svc.Dislike(ctx, voter, id)
	require.NoError(t, err)
	require.EqualValues(t, 0, res.Likes)
	require.EqualValues(t, 1, res.Dislikes)
	require.False(t, res.UserLike)
	require.True(t, res.UserDislike)

	res, err = svc.Dislike(ctx, voter, id)
	require.NoError(t, err)
	require.EqualValues(t, 0, res.Dislikes)
	require.False(t, res.UserDislike)

	res, err = svc.Like(ctx, voter, id)
	require.NoError(t, err)
	res, err = svc.Like(ctx, voter, id)
	require.NoError(t, err)
	require.EqualValues(t, 0, res.Likes)

	record := env.likes.rows[voter.UserID]
	require.Empty(t, record.Likes)
	require.Empty(t, record.Dislikes)
}

func TestVoteRejectsSelfAndAnonymous(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	svc := services.NewVoteService(env.captions, env.likes, nil, fakeTxManager{}, env.logger)

	_, err := svc.Like(ctx, metadata.Anonymous(), caption.ID.String())
	requireKind(t, err, services.ReasonAuthenticationRequired, services.MsgNotLoggedIn)

	_, err = svc.Like(ctx, owner, caption.ID.String())
	requireKind(t, err, services.ReasonValidationFailed, services.MsgSelfLike)

	_, err = svc.Dislike(ctx, owner, caption.ID.String())
	requireKind(t, err, services.ReasonValidationFailed, services.MsgSelfDislike)

	_, err = svc.Like(ctx, owner, uuid.NewString())
	requireKind(t, err, services.ReasonNotFound, services.MsgNoSuchCaption)

	require.Zero(t, env.captions.get(caption.ID).Likes)
}

func TestVoteEnqueuesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	env := newTestEnv()
	owner := env.captioner("alice")
	voter := env.captioner("bob")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	svc := services.NewVoteService(env.captions, env.likes, outbox, fakeTxManager{}, env.logger)

	_, err := svc.Like(context.Background(), voter, caption.ID.String())
	require.NoError(t, err)
	_, err = svc.Like(context.Background(), voter, caption.ID.String())
	require.NoError(t, err)
}

func TestNextReviewState(t *testing.T) {
	rejected := true
	cases := []struct {
		name         string
		caption      po.Caption
		action       services.ReviewAction
		wantVerified bool
		wantRejected bool
		wantState    string
	}{
		{"verify unreviewed", po.Caption{}, services.ReviewVerify, true, false, po.ReviewStateVerified},
		{"verify verified", po.Caption{Verified: true}, services.ReviewVerify, false, false, po.ReviewStateUnverified},
		{"verify rejected", po.Caption{Rejected: &rejected}, services.ReviewVerify, true, false, po.ReviewStateVerified},
		{"reject unreviewed", po.Caption{}, services.ReviewReject, false, true, po.ReviewStateRejected},
		{"reject verified", po.Caption{Verified: true}, services.ReviewReject, false, true, po.ReviewStateRejected},
		{"reject rejected", po.Caption{Rejected: &rejected}, services.ReviewReject, false, false, po.ReviewStateUnrejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verified, rej, state := services.NextReviewState(&tc.caption, tc.action)
			require.Equal(t, tc.wantVerified, verified)
			require.Equal(t, tc.wantRejected, rej)
			require.Equal(t, tc.wantState, state)
			require.False(t, verified && rej)
		})
	}
}

func TestReviewAppendsHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice")
	reviewer := withRoles(env.captioner("rev"), po.RoleReviewer)
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	svc := services.NewReviewService(env.captions, env.profiles, nil, fakeTxManager{}, env.logger)

	res, err := svc.Verify(ctx, reviewer, caption.ID.String(), "looks good")
	require.NoError(t, err)
	require.True(t, res.Verified)
	require.Equal(t, po.ReviewStateVerified, res.NewState)

	res, err = svc.Reject(ctx, reviewer, caption.ID.String(), "")
	require.NoError(t, err)
	require.False(t, res.Verified)
	require.True(t, res.Rejected)

	stored := env.captions.get(caption.ID)
	require.Len(t, stored.ReviewHistory, 2)
	first := stored.ReviewHistory[0]
	require.Equal(t, reviewer.UserID.String(), first.ReviewerID)
	require.Equal(t, "rev", first.ReviewerName)
	require.Equal(t, "looks good", first.Reason)
	require.Equal(t, po.ReviewStateRejected, stored.ReviewHistory[1].NewState)
}

func TestReviewRequiresReviewerRole(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	svc := services.NewReviewService(env.captions, env.profiles, nil, fakeTxManager{}, env.logger)

	_, err := svc.Verify(ctx, metadata.Anonymous(), caption.ID.String(), "")
	requireKind(t, err, services.ReasonAuthenticationRequired, services.MsgNotLoggedIn)

	_, err = svc.Verify(ctx, owner, caption.ID.String(), "")
	requireKind(t, err, services.ReasonAuthorizationDenied, services.MsgNotAuthorized)

	// 非审核员对不存在的 ID 同样得到拒绝，不暴露字幕是否存在。
	_, err = svc.Reject(ctx, owner, uuid.NewString(), "")
	requireKind(t, err, services.ReasonAuthorizationDenied, services.MsgNotAuthorized)
	_, err = svc.Verify(ctx, owner, "not-an-id", "")
	requireKind(t, err, services.ReasonAuthorizationDenied, services.MsgNotAuthorized)

	manager := withRoles(env.captioner("mgr"), po.RoleReviewerManager)
	_, err = svc.Reject(ctx, manager, uuid.NewString(), "")
	requireKind(t, err, services.ReasonNotFound, services.MsgNoSuchCaption)

	res, err := svc.Reject(ctx, manager, caption.ID.String(), "spam")
	require.NoError(t, err)
	require.True(t, res.Rejected)
}
