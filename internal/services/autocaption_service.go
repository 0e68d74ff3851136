package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
)

// AutoCaptionService 列出外部平台提供的字幕轨道。
type AutoCaptionService struct {
	tracks TrackLister
	mode   *ModeService
	log    *log.Helper
}

// NewAutoCaptionService 构造 AutoCaptionService。
func NewAutoCaptionService(tracks TrackLister, mode *ModeService, logger log.Logger) *AutoCaptionService {
	return &AutoCaptionService{tracks: tracks, mode: mode, log: log.NewHelper(logger)}
}

// List 仅支持 YouTube；allowAutoCaptioning 关闭时返回空列表。
func (s *AutoCaptionService) List(ctx context.Context, videoID, videoSource string) ([]vo.AutoCaptionLanguage, error) {
	if videoSource != po.VideoSourceYoutube {
		return nil, errValidation(MsgUnsupportedSource)
	}
	enabled, err := s.mode.AutoCaptioningEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled || s.tracks == nil {
		return []vo.AutoCaptionLanguage{}, nil
	}
	tracks, err := s.tracks.ListTracks(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("list caption tracks: %w", err)
	}
	return tracks, nil
}
