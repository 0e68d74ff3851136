package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// SearchInput 描述 search 的参数。
type SearchInput struct {
	Title               string
	VideoLanguageCode   string
	CaptionLanguageCode string
	Limit               int
	Offset              int
}

// SearchService 按标题、字幕译名或来源 ID 搜索有字幕的视频。
type SearchService struct {
	videos VideoStore
	log    *log.Helper
}

// NewSearchService 构造 SearchService。
func NewSearchService(videos VideoStore, logger log.Logger) *SearchService {
	return &SearchService{videos: videos, log: log.NewHelper(logger)}
}

// Search 执行三路联合搜索并按更新时间倒序分页。
func (s *SearchService) Search(ctx context.Context, input SearchInput) (vo.SearchResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	plan := captionquery.BuildSearchPlan(input.Title, input.VideoLanguageCode, input.CaptionLanguageCode, limit, input.Offset)
	rows, err := s.videos.Search(ctx, nil, plan)
	if err != nil {
		return vo.SearchResult{}, fmt.Errorf("search videos: %w", err)
	}
	rows, more := captionquery.TrimSentinel(rows, limit)

	videos := make([]vo.VideoFields, 0, len(rows))
	for i := range rows {
		videos = append(videos, vo.NewVideoFields(&rows[i]))
	}
	return vo.SearchResult{Videos: videos, HasMoreResults: more}, nil
}
