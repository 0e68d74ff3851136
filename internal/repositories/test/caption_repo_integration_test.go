package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCaptionRepository_ListSentinelAndJoins(t *testing.T) {
	ctx, pool := newTestPool(t)
	captions := repositories.NewCaptionRepository(pool, discardLogger())
	videos := repositories.NewVideoRepository(pool, discardLogger())
	captioners := repositories.NewCaptionerRepository(pool, discardLogger())

	creator := uuid.New()
	_, _, err := captioners.Create(ctx, nil, repositories.CreateCaptionerInput{UserID: &creator, Name: "alice", NameTag: 1234})
	require.NoError(t, err)
	_, _, err = videos.Create(ctx, nil, repositories.CreateVideoInput{SourceID: "vid-1", Source: "0", Name: "First video", Language: "ja"})
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour).UTC()
	for i := 0; i < 11; i++ {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		_, err := captions.Create(ctx, nil, repositories.CreateCaptionInput{
			CreatorID:       creator,
			VideoID:         "vid-1",
			VideoSource:     "0",
			Language:        "en",
			Content:         `{"tracks":[]}`,
			TranslatedTitle: fmt.Sprintf("caption %d", i),
			CreatedAt:       &createdAt,
		})
		require.NoError(t, err)
	}

	rows, err := captions.List(ctx, nil, captionquery.Build(captionquery.Filter{Limit: 10}, 0))
	require.NoError(t, err)
	page, more := captionquery.TrimSentinel(rows, 10)
	require.Len(t, page, 10)
	require.True(t, more)
	require.Equal(t, "caption 10", page[0].TranslatedTitle)
	require.NotNil(t, page[0].VideoName)
	require.Equal(t, "First video", *page[0].VideoName)
	require.NotNil(t, page[0].CreatorName)
	require.Equal(t, "alice", *page[0].CreatorName)

	rows, err = captions.List(ctx, nil, captionquery.Build(captionquery.Filter{Limit: 10, Offset: 1}, 0))
	require.NoError(t, err)
	page, more = captionquery.TrimSentinel(rows, 10)
	require.Len(t, page, 10)
	require.False(t, more)

	count, err := captions.Count(ctx, nil, captionquery.Build(captionquery.Filter{Limit: -1}, 0))
	require.NoError(t, err)
	require.Equal(t, int64(11), count)
}

func TestCaptionRepository_PrivacyTagsAndReview(t *testing.T) {
	ctx, pool := newTestPool(t)
	captions := repositories.NewCaptionRepository(pool, discardLogger())

	owner := uuid.New()
	public, err := captions.Create(ctx, nil, repositories.CreateCaptionInput{
		CreatorID: owner, VideoID: "v", VideoSource: "0", Language: "en",
		Tags: []string{"g:anime:ff0000"},
	})
	require.NoError(t, err)
	_, err = captions.Create(ctx, nil, repositories.CreateCaptionInput{
		CreatorID: owner, VideoID: "v", VideoSource: "0", Language: "en_US",
		Privacy: po.PrivacyPrivate, Tags: []string{"g:music:00ff00"},
	})
	require.NoError(t, err)

	stranger, err := captions.Count(ctx, nil, captionquery.Build(captionquery.Filter{Limit: -1, CaptionerID: owner, UserID: uuid.New()}, 0))
	require.NoError(t, err)
	require.Equal(t, int64(1), stranger)

	self, err := captions.Count(ctx, nil, captionquery.Build(captionquery.Filter{Limit: -1, CaptionerID: owner, UserID: owner}, 0))
	require.NoError(t, err)
	require.Equal(t, int64(2), self)

	tagged, err := captions.Count(ctx, nil, captionquery.Build(captionquery.Filter{
		Limit: -1, CaptionerID: owner, UserID: owner, Tags: []string{"music"},
	}, 0))
	require.NoError(t, err)
	require.Equal(t, int64(1), tagged)

	reviewed, err := captions.ApplyReview(ctx, nil, public.ID, true, false, po.ReviewEntry{
		ReviewerID: uuid.NewString(), ReviewerName: "rev", NewState: po.ReviewStateVerified, Date: time.Now().Unix(),
	})
	require.NoError(t, err)
	require.True(t, reviewed.Verified)
	require.False(t, reviewed.IsRejected())

	reviewed, err = captions.ApplyReview(ctx, nil, public.ID, false, true, po.ReviewEntry{
		ReviewerID: uuid.NewString(), ReviewerName: "rev", NewState: po.ReviewStateRejected, Reason: "spam", Date: time.Now().Unix(),
	})
	require.NoError(t, err)
	require.False(t, reviewed.Verified)
	require.True(t, reviewed.IsRejected())
	require.Len(t, reviewed.ReviewHistory, 2)
	require.Equal(t, "spam", reviewed.ReviewHistory[1].Reason)

	likes, dislikes, err := captions.AdjustVotes(ctx, nil, public.ID, 1, -1)
	require.NoError(t, err)
	require.Equal(t, int32(1), likes)
	require.Equal(t, int32(0), dislikes)

	affected, err := captions.RemoveTagsMatching(ctx, nil, owner, "^g:anime:.*$")
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)
	reloaded, err := captions.Get(ctx, nil, public.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Tags)

	require.NoError(t, captions.Delete(ctx, nil, public.ID))
	_, err = captions.Get(ctx, nil, public.ID)
	require.ErrorIs(t, err, repositories.ErrCaptionNotFound)
}

func TestVideoRepository_CounterConsistency(t *testing.T) {
	ctx, pool := newTestPool(t)
	videos := repositories.NewVideoRepository(pool, discardLogger())

	_, created, err := videos.Create(ctx, nil, repositories.CreateVideoInput{SourceID: "abc", Source: "0", Name: "Video"})
	require.NoError(t, err)
	require.True(t, created)
	_, created, err = videos.Create(ctx, nil, repositories.CreateVideoInput{SourceID: "abc", Source: "0", Name: "Other"})
	require.NoError(t, err)
	require.False(t, created)

	for _, lang := range []string{"en", "en", "ja"} {
		found, err := videos.IncrementCaptionCount(ctx, nil, "abc", "0", lang)
		require.NoError(t, err)
		require.True(t, found)
	}
	for _, lang := range []string{"en", "ja", "ja", "fr"} {
		_, err := videos.DecrementCaptionCount(ctx, nil, "abc", "0", lang)
		require.NoError(t, err)
	}

	video, err := videos.Get(ctx, nil, "abc", "0")
	require.NoError(t, err)
	require.Equal(t, map[string]int32{"en": 1}, video.Captions)
	require.Equal(t, int32(1), video.CaptionCount)

	found, err := videos.IncrementCaptionCount(ctx, nil, "missing", "0", "en")
	require.NoError(t, err)
	require.False(t, found)

	added, err := videos.CreateBatch(ctx, nil, []repositories.CreateVideoInput{
		{SourceID: "abc", Source: "0", Name: "dup"},
		{SourceID: "new-1", Source: "0", Name: "n1"},
		{SourceID: "new-2", Source: "0", Name: "n2"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, added)
}

func TestCaptionerRepositories(t *testing.T) {
	ctx, pool := newTestPool(t)
	captioners := repositories.NewCaptionerRepository(pool, discardLogger())
	privates := repositories.NewCaptionerPrivateRepository(pool, discardLogger())
	likes := repositories.NewCaptionLikesRepository(pool, discardLogger())
	roles := repositories.NewRoleRepository(pool, discardLogger())
	appConfig := repositories.NewAppConfigRepository(pool, discardLogger())

	userID := uuid.New()
	captioner, created, err := captioners.Create(ctx, nil, repositories.CreateCaptionerInput{UserID: &userID, NameTag: po.PlaceholderNameTag})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, po.PlaceholderNameTag, captioner.NameTag)
	require.NoError(t, privates.Upsert(ctx, nil, userID, "someone@example.com"))

	private, err := privates.FindByEmail(ctx, nil, "someone@example.com")
	require.NoError(t, err)
	require.Equal(t, userID, private.CaptionerID)

	require.NoError(t, captioners.SetName(ctx, nil, userID, "bob", 42))
	other := uuid.New()
	taken, err := captioners.NameTagTaken(ctx, nil, "bob", 42, other)
	require.NoError(t, err)
	require.True(t, taken)
	taken, err = captioners.NameTagTaken(ctx, nil, "bob", 42, userID)
	require.NoError(t, err)
	require.False(t, taken)

	found, err := captioners.AdjustCaptionCount(ctx, nil, userID, -1)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, captioners.AppendCaptionTags(ctx, nil, userID, []string{"g:anime:ff0000"}))
	updated, err := captioners.UpdateProfile(ctx, nil, userID, repositories.UpdateCaptionerProfileInput{
		DonationLink: "https://ko-fi.com/bob", Languages: []string{"en", "ja"},
	})
	require.NoError(t, err)
	require.Equal(t, int32(0), updated.CaptionCount)
	require.Equal(t, []string{"g:anime:ff0000"}, updated.CaptionTags)
	require.Equal(t, []string{"en", "ja"}, updated.Languages)

	record, err := likes.GetOrCreateForUpdate(ctx, nil, userID)
	require.NoError(t, err)
	require.Empty(t, record.Likes)
	captionID := uuid.New()
	record.Likes = append(record.Likes, captionID)
	require.NoError(t, likes.Save(ctx, nil, record))
	record, err = likes.Get(ctx, nil, userID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{captionID}, record.Likes)

	require.NoError(t, roles.Grant(ctx, nil, userID, po.RoleReviewer))
	require.NoError(t, roles.Grant(ctx, nil, userID, po.RoleReviewer))
	has, err := roles.HasRole(ctx, nil, userID, po.RoleReviewer)
	require.NoError(t, err)
	require.True(t, has)
	require.NoError(t, roles.Revoke(ctx, nil, userID, po.RoleReviewer))
	list, err := roles.ListRoles(ctx, nil, userID)
	require.NoError(t, err)
	require.Empty(t, list)

	maintenance, err := appConfig.GetBool(ctx, repositories.ConfigKeyMaintenance)
	require.NoError(t, err)
	require.False(t, maintenance)
	require.NoError(t, appConfig.SetBool(ctx, repositories.ConfigKeyMaintenance, true))
	maintenance, err = appConfig.GetBool(ctx, repositories.ConfigKeyMaintenance)
	require.NoError(t, err)
	require.True(t, maintenance)
}
