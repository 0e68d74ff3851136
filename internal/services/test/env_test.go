package services_test

import (
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv 汇总各服务共享的内存仓储。
type testEnv struct {
	captions   *memCaptions
	videos     *memVideos
	captioners *memCaptioners
	privates   *memPrivates
	likes      *memLikes
	roles      *memRoles
	profiles   *services.ProfileResolver
	hooks      *services.CounterHooks
	limits     configloader.LimitsConfig
	tx         *txLog
	logger     log.Logger
}

func newTestEnv() *testEnv {
	logger := log.NewStdLogger(io.Discard)
	env := &testEnv{
		captions:   newMemCaptions(),
		videos:     newMemVideos(),
		captioners: newMemCaptioners(),
		privates:   newMemPrivates(),
		likes:      newMemLikes(),
		roles:      newMemRoles(),
		tx:         &txLog{},
		limits: configloader.LimitsConfig{
			MaxCaptionBytes:         64,
			MaxVerifiedCaptionBytes: 128,
			SubmissionCooldown:      5 * time.Minute,
			MaxTagCount:             20,
			MaxTagNameLength:        30,
			MaxVideoTitleLength:     250,
			MaxSearchTags:           5,
			MigrationBatchSize:      2,
			TagCountRate:            5,
			TagCountInterval:        10 * time.Millisecond,
		},
		logger: logger,
	}
	env.profiles = services.NewProfileResolver(env.roles, env.captioners, logger)
	env.hooks = services.NewCounterHooks(env.videos, env.captioners, nil, logger)
	return env
}

func (e *testEnv) captionService(files services.RawFileStore, titles services.TitleFetcher, outbox services.OutboxEnqueuer) *services.CaptionService {
	return services.NewCaptionService(e.captions, e.videos, e.captioners, e.likes, e.profiles, e.hooks,
		files, titles, outbox, fakeTxManager{log: e.tx}, e.limits, e.logger)
}

// captioner 创建一个已设置昵称的作者并返回其身份。
func (e *testEnv) captioner(name string, mutate ...func(*po.Captioner)) metadata.AuthContext {
	userID := uuid.New()
	c := &po.Captioner{Name: name, NameTag: 1234}
	for _, fn := range mutate {
		fn(c)
	}
	e.captioners.put(userID, c)
	return metadata.AuthContext{UserID: userID, SessionToken: "token"}
}

func (e *testEnv) video(sourceID, name string) *po.Video {
	v := &po.Video{SourceID: sourceID, Source: po.VideoSourceYoutube, Name: name, Language: "en"}
	e.videos.put(v)
	return v
}

func (e *testEnv) caption(creator uuid.UUID, videoID, language string, privacy po.CaptionPrivacy) *po.Caption {
	return e.captions.put(&po.Caption{
		CreatorID:       creator,
		VideoID:         videoID,
		VideoSource:     po.VideoSourceYoutube,
		Language:        language,
		Content:         `{"tracks":[]}`,
		TranslatedTitle: "title",
		Privacy:         &privacy,
		CreatedAt:       time.Now().UTC(),
	})
}

func withRoles(auth metadata.AuthContext, roles ...po.Role) metadata.AuthContext {
	raw := make([]string, 0, len(roles))
	for _, r := range roles {
		raw = append(raw, string(r))
	}
	auth.Roles = vo.ResolveRoles(raw)
	return auth
}

func requireKind(t *testing.T, err error, reason, message string) {
	t.Helper()
	require.Error(t, err)
	kerr, ok := services.AsKindError(err)
	require.True(t, ok, "expected business error, got %v", err)
	require.Equal(t, reason, kerr.Reason)
	require.Equal(t, message, kerr.Message)
}

func requireInternal(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	_, ok := services.AsKindError(err)
	require.False(t, ok)
	require.Equal(t, "", kerrors.Reason(err))
}
