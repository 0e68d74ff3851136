package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	"github.com/bionicotaku/lingo-services-captions/internal/services"
	"github.com/bionicotaku/lingo-services-captions/internal/services/mocks"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func submitInput(videoID string) services.SubmitCaptionInput {
	return services.SubmitCaptionInput{
		VideoID:         videoID,
		VideoSource:     po.VideoSourceYoutube,
		Language:        "en",
		TranslatedTitle: "My title",
		Content:         `{"tracks":[]}`,
		VideoName:       "Client name",
		VideoLanguage:   "ja",
	}
}

func TestSubmitGates(t *testing.T) {
	ctx := context.Background()
	recent := time.Now().UTC().Add(-time.Minute)

	cases := []struct {
		name    string
		auth    func(*testEnv) metadata.AuthContext
		input   func() services.SubmitCaptionInput
		reason  string
		message string
	}{
		{
			name:    "anonymous",
			auth:    func(*testEnv) metadata.AuthContext { return metadata.Anonymous() },
			input:   func() services.SubmitCaptionInput { return submitInput("v1") },
			reason:  services.ReasonAuthenticationRequired,
			message: services.MsgNotLoggedIn,
		},
		{
			name: "banned",
			auth: func(e *testEnv) metadata.AuthContext {
				return e.captioner("alice", func(c *po.Captioner) { c.Banned = true })
			},
			input:   func() services.SubmitCaptionInput { return submitInput("v1") },
			reason:  services.ReasonAuthorizationDenied,
			message: services.MsgBanned,
		},
		{
			name:    "no name",
			auth:    func(e *testEnv) metadata.AuthContext { return e.captioner("") },
			input:   func() services.SubmitCaptionInput { return submitInput("v1") },
			reason:  services.ReasonValidationFailed,
			message: services.MsgProfileIncomplete,
		},
		{
			name: "no profile",
			auth: func(*testEnv) metadata.AuthContext {
				return metadata.AuthContext{UserID: uuid.New()}
			},
			input:   func() services.SubmitCaptionInput { return submitInput("v1") },
			reason:  services.ReasonValidationFailed,
			message: services.MsgProfileIncomplete,
		},
		{
			name: "cooldown",
			auth: func(e *testEnv) metadata.AuthContext {
				return e.captioner("alice", func(c *po.Captioner) { c.LastSubmissionTime = &recent })
			},
			input:   func() services.SubmitCaptionInput { return submitInput("v1") },
			reason:  services.ReasonRateLimited,
			message: services.MsgCooldown,
		},
		{
			name: "oversized content",
			auth: func(e *testEnv) metadata.AuthContext { return e.captioner("alice") },
			input: func() services.SubmitCaptionInput {
				in := submitInput("v1")
				in.Content = strings.Repeat("x", 65)
				return in
			},
			reason:  services.ReasonValidationFailed,
			message: services.MsgSizeLimit,
		},
		{
			name: "missing title",
			auth: func(e *testEnv) metadata.AuthContext { return e.captioner("alice") },
			input: func() services.SubmitCaptionInput {
				in := submitInput("v1")
				in.TranslatedTitle = ""
				return in
			},
			reason:  services.ReasonValidationFailed,
			message: services.MsgMissingInformation,
		},
		{
			name: "missing video language",
			auth: func(e *testEnv) metadata.AuthContext { return e.captioner("alice") },
			input: func() services.SubmitCaptionInput {
				in := submitInput("v1")
				in.VideoLanguage = ""
				return in
			},
			reason:  services.ReasonValidationFailed,
			message: services.MsgMissingInformation,
		},
		{
			name: "invalid raw caption",
			auth: func(e *testEnv) metadata.AuthContext { return e.captioner("alice") },
			input: func() services.SubmitCaptionInput {
				in := submitInput("v1")
				in.RawCaption = &services.RawCaptionInput{Type: "ass", Data: "not-compressed"}
				return in
			},
			reason:  services.ReasonValidationFailed,
			message: services.MsgInvalidFile,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			svc := env.captionService(nil, nil, nil)
			_, err := svc.Submit(ctx, tc.auth(env), tc.input())
			requireKind(t, err, tc.reason, tc.message)
			require.Empty(t, env.captions.rows)
		})
	}
}

func TestSubmitCreatesVideoAndCounts(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	titles := mocks.NewMockTitleFetcher(ctrl)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	titles.EXPECT().FetchTitle(gomock.Any(), po.VideoSourceYoutube, "v1").Return("Official title", nil)
	outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ txmanager.Session, msg repositories.OutboxMessage) error {
			require.Equal(t, "captions.caption", msg.AggregateType)
			require.NotEmpty(t, msg.Payload)
			return nil
		})

	env := newTestEnv()
	auth := env.captioner("alice")
	svc := env.captionService(nil, titles, outbox)

	id, err := svc.Submit(ctx, auth, submitInput("v1"))
	require.NoError(t, err)

	caption := env.captions.get(uuid.MustParse(id))
	require.NotNil(t, caption)
	require.Equal(t, auth.UserID, caption.CreatorID)
	require.Equal(t, po.PrivacyPublic, caption.EffectivePrivacy())
	require.Empty(t, caption.Tags)

	video := env.videos.video("v1", po.VideoSourceYoutube)
	require.NotNil(t, video)
	require.Equal(t, "Official title", video.Name)
	require.Equal(t, "ja", video.Language)
	require.EqualValues(t, 1, video.CaptionCount)
	require.EqualValues(t, 1, video.Captions["en"])

	captioner := env.captioners.captioner(auth.UserID)
	require.EqualValues(t, 1, captioner.CaptionCount)
	require.NotNil(t, captioner.LastSubmissionTime)
}

func TestSubmitTitleFallbackAndPrivateCaption(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	titles := mocks.NewMockTitleFetcher(ctrl)
	titles.EXPECT().FetchTitle(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("quota exceeded"))

	env := newTestEnv()
	auth := env.captioner("alice")
	svc := env.captionService(nil, titles, nil)

	privacy := po.PrivacyPrivate
	input := submitInput("v2")
	input.Privacy = &privacy
	input.HasAudioDescription = true
	id, err := svc.Submit(ctx, auth, input)
	require.NoError(t, err)

	video := env.videos.video("v2", po.VideoSourceYoutube)
	require.Equal(t, "Client name", video.Name)
	require.Zero(t, video.CaptionCount)

	caption := env.captions.get(uuid.MustParse(id))
	require.Equal(t, []string{"audioDescribed"}, caption.Tags)
	require.Equal(t, po.PrivacyPrivate, caption.EffectivePrivacy())

	captioner := env.captioners.captioner(auth.UserID)
	require.Zero(t, captioner.CaptionCount)
	require.NotNil(t, captioner.LastSubmissionTime)
}

func TestSubmitLimitsCaptionsPerLanguage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.video("v1", "Existing")
	// 已验证作者不受冷却限制。
	auth := env.captioner("alice", func(c *po.Captioner) { c.Verified = true })
	svc := env.captionService(nil, nil, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(ctx, auth, submitInput("v1"))
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, auth, submitInput("v1"))
	requireKind(t, err, services.ReasonValidationFailed, services.MsgDuplicateLanguage)

	other := submitInput("v1")
	other.Language = "fr"
	_, err = svc.Submit(ctx, auth, other)
	require.NoError(t, err)

	video := env.videos.video("v1", po.VideoSourceYoutube)
	require.Equal(t, "Existing", video.Name)
	require.EqualValues(t, 3, video.CaptionCount)
}

func TestSubmitVerifiedSizeLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	auth := env.captioner("alice", func(c *po.Captioner) { c.Verified = true })
	svc := env.captionService(nil, nil, nil)

	input := submitInput("v1")
	input.Content = strings.Repeat("x", 100)
	_, err := svc.Submit(ctx, auth, input)
	require.NoError(t, err)

	input.Content = strings.Repeat("x", 129)
	input.Language = "de"
	_, err = svc.Submit(ctx, auth, input)
	requireKind(t, err, services.ReasonValidationFailed, services.MsgSizeLimit)
}

func TestSubmitFailsWhenOutboxWriteFails(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	env := newTestEnv()
	env.video("v1", "Existing")
	auth := env.captioner("alice")
	svc := env.captionService(nil, nil, outbox)

	_, err := svc.Submit(ctx, auth, submitInput("v1"))
	requireInternal(t, err)
}

func TestUpdateValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	auth := env.captioner("alice")
	other := env.captioner("bob")
	caption := env.caption(auth.UserID, "v1", "en", po.PrivacyPublic)
	svc := env.captionService(nil, nil, nil)

	err := svc.Update(ctx, metadata.Anonymous(), services.UpdateCaptionInput{CaptionID: caption.ID.String()})
	requireKind(t, err, services.ReasonAuthenticationRequired, services.MsgNotLoggedIn)

	err = svc.Update(ctx, auth, services.UpdateCaptionInput{})
	requireKind(t, err, services.ReasonValidationFailed, services.MsgMissingCaptionID)

	err = svc.Update(ctx, auth, services.UpdateCaptionInput{CaptionID: caption.ID.String()})
	requireKind(t, err, services.ReasonValidationFailed, services.MsgNothingToUpdate)

	err = svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID:  caption.ID.String(),
		Content:    ptrString(`{"tracks":[]}`),
		RawCaption: &services.RawCaptionInput{Type: "ass", Data: "x"},
	})
	requireKind(t, err, services.ReasonValidationFailed, services.MsgTooManyCaptionTypes)

	err = svc.Update(ctx, other, services.UpdateCaptionInput{CaptionID: caption.ID.String(), TranslatedTitle: ptrString("hijack")})
	requireKind(t, err, services.ReasonNotFound, services.MsgNoSuchCaption)

	err = svc.Update(ctx, auth, services.UpdateCaptionInput{CaptionID: uuid.NewString(), TranslatedTitle: ptrString("x")})
	requireKind(t, err, services.ReasonNotFound, services.MsgNoSuchCaption)

	err = svc.Update(ctx, auth, services.UpdateCaptionInput{CaptionID: caption.ID.String(), Content: ptrString(strings.Repeat("x", 65))})
	requireKind(t, err, services.ReasonValidationFailed, services.MsgSizeLimit)
}

func TestUpdateAppliesFieldsAndTags(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	auth := env.captioner("alice", func(c *po.Captioner) { c.CaptionTags = []string{"g:anime:red"} })
	caption := env.caption(auth.UserID, "v1", "en", po.PrivacyPublic)
	caption.HasAudioDescription = true
	svc := env.captionService(nil, nil, nil)

	err := svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID:       caption.ID.String(),
		TranslatedTitle: ptrString("New title"),
		SelectedTags:    &[]string{"g:anime:blue", "g:mu<si>c:green", "plain"},
	})
	require.NoError(t, err)

	updated := env.captions.get(caption.ID)
	require.Equal(t, "New title", updated.TranslatedTitle)
	require.Equal(t, `{"tracks":[]}`, updated.Content)
	require.True(t, updated.HasAudioDescription)
	require.Equal(t, []string{"audioDescribed", "g:anime:red", "g:music:green"}, updated.Tags)

	captioner := env.captioners.captioner(auth.UserID)
	require.Equal(t, []string{"g:anime:red", "g:music:green"}, captioner.CaptionTags)

	err = svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID:           caption.ID.String(),
		HasAudioDescription: ptrBool(false),
		Content:             ptrString(`{"tracks":[1]}`),
	})
	require.NoError(t, err)
	updated = env.captions.get(caption.ID)
	require.Equal(t, []string{"g:anime:red", "g:music:green"}, updated.Tags)
	require.False(t, updated.HasAudioDescription)
	require.Equal(t, `{"tracks":[1]}`, updated.Content)
	require.Equal(t, "New title", updated.TranslatedTitle)
}

func TestUpdateTagsOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	auth := env.captioner("alice", func(c *po.Captioner) { c.CaptionTags = []string{"g:anime:red"} })
	caption := env.caption(auth.UserID, "v1", "en", po.PrivacyPublic)
	caption.HasAudioDescription = true
	caption.Tags = []string{"audioDescribed"}
	svc := env.captionService(nil, nil, nil)

	require.NoError(t, svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID:    caption.ID.String(),
		SelectedTags: &[]string{"g:anime:blue"},
	}))
	updated := env.captions.get(caption.ID)
	require.Equal(t, []string{"audioDescribed", "g:anime:red"}, updated.Tags)
	require.Equal(t, "title", updated.TranslatedTitle)
	require.Equal(t, `{"tracks":[]}`, updated.Content)

	require.NoError(t, svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID:    caption.ID.String(),
		SelectedTags: &[]string{},
	}))
	updated = env.captions.get(caption.ID)
	require.Equal(t, []string{"audioDescribed"}, updated.Tags)
}

func TestUpdateKeepsRawFileWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	files := mocks.NewMockRawFileStore(ctrl)
	files.EXPECT().NewObjectName(gomock.Any(), gomock.Any()).Return("captions/new.ass")
	files.EXPECT().Put(gomock.Any(), "captions/new.ass", gomock.Any(), gomock.Any()).Return(errors.New("gcs unavailable"))
	files.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	env := newTestEnv()
	env.hooks = services.NewCounterHooks(env.videos, env.captioners, files, env.logger)
	auth := env.captioner("alice", func(c *po.Captioner) { c.Verified = true })
	caption := env.caption(auth.UserID, "v1", "en", po.PrivacyPublic)
	caption.Content = `{"tracks":[7]}`
	caption.RawFile = ptrString("captions/old.ass")
	caption.RawContent = ptrString(`{"type":"ass"}`)
	svc := env.captionService(files, nil, nil)

	err := svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID:  caption.ID.String(),
		RawCaption: &services.RawCaptionInput{Type: "ass", Data: "compressed"},
	})
	requireInternal(t, err)
	commits, rollbacks := env.tx.counts()
	require.Zero(t, commits)
	require.Zero(t, rollbacks)

	updated := env.captions.get(caption.ID)
	require.Equal(t, `{"tracks":[7]}`, updated.Content)
	require.Equal(t, "captions/old.ass", *updated.RawFile)
	require.Equal(t, `{"type":"ass"}`, *updated.RawContent)
}

func TestUpdateReplacesRawFile(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	files := mocks.NewMockRawFileStore(ctrl)
	gomock.InOrder(
		files.EXPECT().NewObjectName(gomock.Any(), gomock.Any()).Return("captions/new.ass"),
		files.EXPECT().Put(gomock.Any(), "captions/new.ass", []byte("compressed"), gomock.Any()).Return(nil),
		files.EXPECT().Delete(gomock.Any(), "captions/old.ass").Return(nil),
	)

	env := newTestEnv()
	env.hooks = services.NewCounterHooks(env.videos, env.captioners, files, env.logger)
	auth := env.captioner("alice", func(c *po.Captioner) { c.Verified = true })
	caption := env.caption(auth.UserID, "v1", "en", po.PrivacyPublic)
	caption.Content = `{"tracks":[7]}`
	caption.RawFile = ptrString("captions/old.ass")
	caption.RawContent = ptrString(`{"type":"ass"}`)
	svc := env.captionService(files, nil, nil)

	require.NoError(t, svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID:  caption.ID.String(),
		RawCaption: &services.RawCaptionInput{Type: "ass", Data: "compressed"},
	}))
	updated := env.captions.get(caption.ID)
	require.Equal(t, `{"tracks":[]}`, updated.Content)
	require.Equal(t, "captions/new.ass", *updated.RawFile)
	require.JSONEq(t, `{"type":"ass","data":""}`, *updated.RawContent)
}

func TestSubmitFailsWhenRawFileCannotBeStored(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	auth := env.captioner("alice", func(c *po.Captioner) { c.Verified = true })
	svc := env.captionService(nil, nil, nil)

	in := submitInput("v1")
	in.Content = ""
	in.RawCaption = &services.RawCaptionInput{Type: "ass", Data: "compressed"}
	_, err := svc.Submit(ctx, auth, in)
	requireInternal(t, err)
	commits, rollbacks := env.tx.counts()
	require.Zero(t, commits+rollbacks)
	require.Nil(t, env.videos.video("v1", po.VideoSourceYoutube))
	require.Zero(t, env.captioners.captioner(auth.UserID).CaptionCount)
}

func TestUpdatePrivacyFlipAdjustsCounters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	auth := env.captioner("alice", func(c *po.Captioner) { c.CaptionCount = 1 })
	video := env.video("v1", "Video")
	video.CaptionCount = 1
	video.Captions["en"] = 1
	caption := env.caption(auth.UserID, "v1", "en", po.PrivacyPublic)
	svc := env.captionService(nil, nil, nil)

	unlisted := po.PrivacyUnlisted
	require.NoError(t, svc.Update(ctx, auth, services.UpdateCaptionInput{CaptionID: caption.ID.String(), Privacy: &unlisted}))
	require.Zero(t, env.captioners.captioner(auth.UserID).CaptionCount)
	require.Zero(t, env.videos.video("v1", po.VideoSourceYoutube).CaptionCount)

	private := po.PrivacyPrivate
	require.NoError(t, svc.Update(ctx, auth, services.UpdateCaptionInput{CaptionID: caption.ID.String(), Privacy: &private}))
	require.Zero(t, env.captioners.captioner(auth.UserID).CaptionCount)

	public := po.PrivacyPublic
	require.NoError(t, svc.Update(ctx, auth, services.UpdateCaptionInput{CaptionID: caption.ID.String(), Privacy: &public}))
	require.EqualValues(t, 1, env.captioners.captioner(auth.UserID).CaptionCount)
	require.EqualValues(t, 1, env.videos.video("v1", po.VideoSourceYoutube).Captions["en"])
}

func TestUpdateReleasesReplacedRawFile(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	files := mocks.NewMockRawFileStore(ctrl)
	files.EXPECT().Delete(gomock.Any(), "captions/old.ass").Return(nil)

	env := newTestEnv()
	env.hooks = services.NewCounterHooks(env.videos, env.captioners, files, env.logger)
	auth := env.captioner("alice")
	caption := env.caption(auth.UserID, "v1", "en", po.PrivacyPublic)
	caption.RawFile = ptrString("captions/old.ass")
	caption.RawContent = ptrString(`{"type":"ass","data":""}`)
	svc := env.captionService(files, nil, nil)

	require.NoError(t, svc.Update(ctx, auth, services.UpdateCaptionInput{
		CaptionID: caption.ID.String(),
		Content:   ptrString(`{"tracks":[2]}`),
	}))
	updated := env.captions.get(caption.ID)
	require.Nil(t, updated.RawFile)
	require.Nil(t, updated.RawContent)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice", func(c *po.Captioner) { c.CaptionCount = 2 })
	stranger := env.captioner("bob")
	admin := withRoles(env.captioner("carol"), po.RoleAdmin)
	video := env.video("v1", "Video")
	video.CaptionCount = 2
	video.Captions["en"] = 2
	first := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	second := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	hidden := env.caption(owner.UserID, "v1", "en", po.PrivacyPrivate)
	svc := env.captionService(nil, nil, nil)

	err := svc.Delete(ctx, metadata.Anonymous(), first.ID.String())
	requireKind(t, err, services.ReasonAuthenticationRequired, services.MsgNotLoggedIn)

	err = svc.Delete(ctx, owner, "not-a-uuid")
	requireKind(t, err, services.ReasonNotFound, services.MsgUnknownCaption)

	err = svc.Delete(ctx, stranger, first.ID.String())
	requireKind(t, err, services.ReasonAuthorizationDenied, services.MsgNotAuthorized)

	require.NoError(t, svc.Delete(ctx, owner, first.ID.String()))
	require.NoError(t, svc.Delete(ctx, admin, second.ID.String()))
	require.NoError(t, svc.Delete(ctx, owner, hidden.ID.String()))

	err = svc.Delete(ctx, owner, first.ID.String())
	requireKind(t, err, services.ReasonNotFound, services.MsgUnknownCaption)

	require.Empty(t, env.captions.rows)
	require.Zero(t, env.captioners.captioner(owner.UserID).CaptionCount)
	require.Zero(t, env.videos.video("v1", po.VideoSourceYoutube).CaptionCount)
}

func TestLoadIncrementsViewsAndResolvesNames(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice")
	viewer := env.captioner("bob")
	env.video("v1", "Original")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	env.likes.rows[viewer.UserID] = &po.CaptionLikes{UserID: viewer.UserID, Likes: []uuid.UUID{caption.ID}}
	svc := env.captionService(nil, nil, nil)

	loaded, err := svc.Load(ctx, viewer, caption.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Original", loaded.OriginalTitle)
	require.Equal(t, "alice", loaded.CaptionerName)
	require.True(t, loaded.UserLike)
	require.False(t, loaded.UserDislike)
	require.EqualValues(t, 1, loaded.Caption.Views)
	require.Empty(t, loaded.RawCaptionURL)
	require.Equal(t, 1, env.captions.views[caption.ID])

	orphan := env.caption(uuid.New(), "missing", "en", po.PrivacyPublic)
	loaded, err = svc.Load(ctx, metadata.Anonymous(), orphan.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Unknown", loaded.CaptionerName)
	require.Empty(t, loaded.OriginalTitle)

	_, err = svc.Load(ctx, viewer, uuid.NewString())
	requireKind(t, err, services.ReasonNotFound, services.MsgNoSuchCaption)
}

func TestLoadToleratesViewCounterFailure(t *testing.T) {
	env := newTestEnv()
	owner := env.captioner("alice")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	env.captions.viewsErr = errors.New("timeout")
	svc := env.captionService(nil, nil, nil)

	loaded, err := svc.Load(context.Background(), metadata.Anonymous(), caption.ID.String())
	require.NoError(t, err)
	require.Zero(t, loaded.Caption.Views)
}

func TestLoadSignsAdvancedCaption(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockRawFileStore(ctrl)
	files.EXPECT().SignedURL(gomock.Any(), "captions/a.ass").Return("https://storage.example/a.ass?sig", nil)

	env := newTestEnv()
	owner := env.captioner("alice")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	caption.RawFile = ptrString("captions/a.ass")
	caption.RawContent = ptrString(`{"type":"ass","data":""}`)
	svc := env.captionService(files, nil, nil)

	loaded, err := svc.Load(context.Background(), metadata.Anonymous(), caption.ID.String())
	require.NoError(t, err)
	require.Equal(t, "https://storage.example/a.ass?sig", loaded.RawCaptionURL)
}

func TestLoadForReview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice")
	reviewer := withRoles(env.captioner("rev"), po.RoleReviewer)
	env.video("v1", "Original")
	caption := env.caption(owner.UserID, "v1", "en", po.PrivacyPrivate)
	svc := env.captionService(nil, nil, nil)

	_, err := svc.LoadForReview(ctx, metadata.Anonymous(), caption.ID.String())
	requireKind(t, err, services.ReasonAuthenticationRequired, services.MsgNotLoggedIn)

	_, err = svc.LoadForReview(ctx, owner, caption.ID.String())
	requireKind(t, err, services.ReasonAuthorizationDenied, services.MsgNotAuthorized)

	result, err := svc.LoadForReview(ctx, reviewer, caption.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Original", result.VideoName)
	require.NotNil(t, result.Captioner)
	require.Equal(t, "alice", result.Captioner.Name)
	require.Equal(t, caption.ID.String(), result.Caption.ID)
}

func TestFindFiltersInvisibleCaptions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.captioner("alice")
	viewer := env.captioner("bob")
	public := env.caption(owner.UserID, "v1", "en", po.PrivacyPublic)
	unlisted := env.caption(owner.UserID, "v1", "fr", po.PrivacyUnlisted)
	private := env.caption(owner.UserID, "v1", "de", po.PrivacyPrivate)
	env.captions.listFn = func(_ captionquery.Plan) []po.CaptionWithJoins {
		return []po.CaptionWithJoins{{Caption: *public}, {Caption: *unlisted}, {Caption: *private}}
	}
	svc := env.captionService(nil, nil, nil)

	found, err := svc.Find(ctx, viewer, "v1", po.VideoSourceYoutube)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, public.ID.String(), found[0].ID)

	found, err = svc.Find(ctx, owner, "v1", po.VideoSourceYoutube)
	require.NoError(t, err)
	require.Len(t, found, 3)

	plan := env.captions.plans[0]
	require.Contains(t, plan.Conditions, "c.rejected IS NOT TRUE")
	require.NotContains(t, plan.Conditions, "(c.privacy IS NULL OR c.privacy = 0)")

	found, err = svc.Find(ctx, viewer, "", po.VideoSourceYoutube)
	require.NoError(t, err)
	require.Empty(t, found)
}

func ptrBool(v bool) *bool { return &v }
