package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// TagService 管理作者的分组标签词表。
type TagService struct {
	captioners CaptionerStore
	captions   CaptionStore
	profiles   *ProfileResolver
	lister     *captionLister
	txManager  txmanager.Manager
	burst      int
	every      time.Duration
	log        *log.Helper
}

// NewTagService 构造 TagService。
func NewTagService(
	captions CaptionStore,
	captioners CaptionerStore,
	profiles *ProfileResolver,
	tx txmanager.Manager,
	limits configloader.LimitsConfig,
	logger log.Logger,
) *TagService {
	helper := log.NewHelper(logger)
	burst := limits.TagCountRate
	if burst <= 0 {
		burst = 5
	}
	interval := limits.TagCountInterval
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}
	return &TagService{
		captioners: captioners,
		captions:   captions,
		profiles:   profiles,
		lister:     newCaptionLister(captions, limits.MaxSearchTags, helper),
		txManager:  tx,
		burst:      burst,
		every:      interval / time.Duration(burst),
		log:        helper,
	}
}

// OwnProfileTags 统计调用方每个分组标签下的字幕数量（含被拒与非公开字幕）。
// 每个标签一次计数查询，按配置速率节流。
func (s *TagService) OwnProfileTags(ctx context.Context, auth metadata.AuthContext) ([]vo.TagCount, error) {
	if !auth.Authenticated() {
		return nil, errNotLoggedIn()
	}
	captioner, err := s.profiles.Captioner(ctx, nil, auth.UserID)
	if err != nil {
		return nil, err
	}
	if captioner == nil || len(captioner.CaptionTags) == 0 {
		return []vo.TagCount{}, nil
	}

	limiter := rate.NewLimiter(rate.Every(s.every), s.burst)
	counts := make([]vo.TagCount, len(captioner.CaptionTags))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.burst)
	for i, tag := range captioner.CaptionTags {
		counts[i] = vo.TagCount{Tag: tag}
		name := captionquery.TagName(tag)
		if name == "" {
			continue
		}
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			total, err := s.lister.count(gctx, captionquery.Filter{
				CaptionerID: auth.UserID,
				UserID:      auth.UserID,
				GetRejected: true,
				Tags:        []string{name},
			})
			if err != nil {
				return fmt.Errorf("count tag %s: %w", name, err)
			}
			counts[i].Count = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// DeleteProfileTag 从作者词表和其全部字幕中移除名为 tagName 的分组标签。
func (s *TagService) DeleteProfileTag(ctx context.Context, auth metadata.AuthContext, tagName string) error {
	if !auth.Authenticated() {
		return errNotLoggedIn()
	}
	return s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		captioner, err := s.profiles.Captioner(txCtx, sess, auth.UserID)
		if err != nil {
			return err
		}
		if captioner == nil {
			return nil
		}
		marker := "g:" + tagName + ":"
		kept := make([]string, 0, len(captioner.CaptionTags))
		for _, tag := range captioner.CaptionTags {
			if !strings.Contains(tag, marker) {
				kept = append(kept, tag)
			}
		}
		if err := s.captioners.SetCaptionTags(txCtx, sess, auth.UserID, kept); err != nil {
			return err
		}
		affected, err := s.captions.RemoveTagsMatching(txCtx, sess, auth.UserID, "^g:"+captionquery.EscapeRegex(tagName)+":")
		if err != nil {
			return err
		}
		s.log.WithContext(txCtx).Infof("profile tag deleted: user=%s tag=%s captions=%d", auth.UserID, tagName, affected)
		return nil
	})
}
