package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
)

// captionLister 把 Filter 编译为查询并装配列表页，供各列表用例共享。
type captionLister struct {
	captions CaptionStore
	maxTags  int
	log      *log.Helper
}

func newCaptionLister(captions CaptionStore, maxTags int, logger *log.Helper) *captionLister {
	return &captionLister{captions: captions, maxTags: maxTags, log: logger}
}

// page 查询一页字幕，多取的哨兵行只用于判断 hasMore。
func (l *captionLister) page(ctx context.Context, f captionquery.Filter) (vo.CaptionPage, error) {
	plan := captionquery.Build(f, l.maxTags)
	if plan.TagsTruncated {
		l.log.WithContext(ctx).Infof("caption tag filter truncated: requested=%d max=%d", len(f.Tags), l.effectiveMaxTags())
	}
	rows, err := l.captions.List(ctx, nil, plan)
	if err != nil {
		return vo.CaptionPage{}, fmt.Errorf("list captions: %w", err)
	}
	rows, more := captionquery.TrimSentinel(rows, f.Limit)
	return vo.CaptionPage{
		Captions:      vo.NewCaptionList(rows),
		HasMore:       more,
		TagsTruncated: plan.TagsTruncated,
	}, nil
}

// count 以仅计数模式执行 Filter。
func (l *captionLister) count(ctx context.Context, f captionquery.Filter) (int64, error) {
	f.Limit = -1
	total, err := l.captions.Count(ctx, nil, captionquery.Build(f, l.maxTags))
	if err != nil {
		return 0, fmt.Errorf("count captions: %w", err)
	}
	return total, nil
}

func (l *captionLister) effectiveMaxTags() int {
	if l.maxTags <= 0 {
		return captionquery.DefaultMaxTags
	}
	return l.maxTags
}
