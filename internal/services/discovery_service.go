package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	latestFeedLimit       = 10
	popularCandidateLimit = 100
	popularFeedLimit      = 10
	defaultBrowseLimit    = 20
	maxBrowseLimit        = 100
)

// DiscoveryService 提供首页与浏览页的字幕列表。
type DiscoveryService struct {
	captions CaptionStore
	lister   *captionLister
	log      *log.Helper
}

// NewDiscoveryService 构造 DiscoveryService。
func NewDiscoveryService(captions CaptionStore, limits configloader.LimitsConfig, logger log.Logger) *DiscoveryService {
	helper := log.NewHelper(logger)
	return &DiscoveryService{
		captions: captions,
		lister:   newCaptionLister(captions, limits.MaxSearchTags, helper),
		log:      helper,
	}
}

// Latest 返回最新的公开字幕。
func (s *DiscoveryService) Latest(ctx context.Context) (vo.CaptionPage, error) {
	page, err := s.lister.page(ctx, captionquery.Filter{Limit: latestFeedLimit})
	if err != nil {
		return vo.CaptionPage{}, err
	}
	return page, nil
}

// LatestLanguage 返回某语言（含同族地区变体）的最新公开字幕，hasMore 恒为 false。
func (s *DiscoveryService) LatestLanguage(ctx context.Context, languageCode string) (vo.CaptionPage, error) {
	codes := captionquery.RelatedLanguageCodes(languageCode)
	if len(codes) == 0 {
		return vo.CaptionPage{Captions: []vo.CaptionListFields{}}, nil
	}
	page, err := s.lister.page(ctx, captionquery.Filter{Limit: latestFeedLimit, LanguageCodes: codes})
	if err != nil {
		return vo.CaptionPage{}, err
	}
	page.HasMore = false
	return page, nil
}

// Popular 在点赞最多的 100 条中挑出调用方可见且赞多于踩的前 10 条。
func (s *DiscoveryService) Popular(ctx context.Context, auth metadata.AuthContext) (vo.CaptionPage, error) {
	rows, err := s.captions.List(ctx, nil, captionquery.Build(captionquery.Filter{
		Limit:      popularCandidateLimit,
		AnyPrivacy: true,
		MinLikes:   1,
		Order:      captionquery.OrderLikesDesc,
	}, s.lister.maxTags))
	if err != nil {
		return vo.CaptionPage{}, fmt.Errorf("list popular captions: %w", err)
	}
	rows, _ = captionquery.TrimSentinel(rows, popularCandidateLimit)

	captions := make([]vo.CaptionListFields, 0, popularFeedLimit)
	for _, row := range rows {
		if len(captions) == popularFeedLimit {
			break
		}
		if !vo.CanViewCaption(&row.Caption, auth.UserID) || row.Likes <= row.Dislikes {
			continue
		}
		captions = append(captions, vo.NewCaptionListFields(row))
	}
	return vo.CaptionPage{Captions: captions}, nil
}

// Browse 分页浏览公开字幕。offset 越过末页时回退到最后一个整页。
func (s *DiscoveryService) Browse(ctx context.Context, limit, offset int) (vo.BrowseResult, error) {
	limit = normalizeBrowseLimit(limit)
	if offset < 0 {
		offset = 0
	}
	page, err := s.lister.page(ctx, captionquery.Filter{Limit: limit, Offset: offset})
	if err != nil {
		return vo.BrowseResult{}, err
	}

	total := int64(offset + len(page.Captions))
	if len(page.Captions) == 0 && offset > 0 {
		total, err = s.lister.count(ctx, captionquery.Filter{})
		if err != nil {
			return vo.BrowseResult{}, err
		}
		lastPage := int(total - total%int64(limit))
		if int64(lastPage) == total && lastPage > 0 {
			lastPage -= limit
		}
		page, err = s.lister.page(ctx, captionquery.Filter{Limit: limit, Offset: lastPage})
		if err != nil {
			return vo.BrowseResult{}, err
		}
	}
	return vo.BrowseResult{
		Captions:       page.Captions,
		HasMoreResults: page.HasMore,
		TotalCount:     total,
	}, nil
}

func normalizeBrowseLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultBrowseLimit
	case limit > maxBrowseLimit:
		return maxBrowseLimit
	default:
		return limit
	}
}
