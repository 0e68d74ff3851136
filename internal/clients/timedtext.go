package clients

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/go-kratos/kratos/v2/log"
)

// TimedTextClient 列出 YouTube 视频可用的字幕轨道。
type TimedTextClient struct {
	endpoint string
	client   *resilientClient
}

// NewTimedTextClient 构造轨道列表客户端。
func NewTimedTextClient(cfg configloader.HTTPClientConfig, logger log.Logger) *TimedTextClient {
	return &TimedTextClient{
		endpoint: cfg.Endpoint,
		client:   newResilientClient("timedtext", cfg, logger),
	}
}

// ProvideTimedTextClient 供 Wire 使用。
func ProvideTimedTextClient(cfg configloader.ClientsConfig, logger log.Logger) *TimedTextClient {
	return NewTimedTextClient(cfg.TimedText, logger)
}

type transcriptList struct {
	XMLName xml.Name          `xml:"transcript_list"`
	Tracks  []transcriptTrack `xml:"track"`
}

type transcriptTrack struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	LangCode string `xml:"lang_code,attr"`
	Kind     string `xml:"kind,attr"`
}

// ListTracks 返回已知语言的字幕轨道，按显示名称排序。
// 自动生成的轨道名称附加 " (Auto)"。
func (c *TimedTextClient) ListTracks(ctx context.Context, videoID string) ([]vo.AutoCaptionLanguage, error) {
	query := url.Values{}
	query.Set("type", "list")
	query.Set("v", videoID)
	body, err := c.client.get(ctx, c.endpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return []vo.AutoCaptionLanguage{}, nil
	}

	var list transcriptList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("timedtext: decode track list: %w", err)
	}

	out := make([]vo.AutoCaptionLanguage, 0, len(list.Tracks))
	for _, track := range list.Tracks {
		code := strings.ReplaceAll(track.LangCode, "-", "_")
		name, ok := captionquery.Languages[code]
		if !ok {
			continue
		}
		auto := track.Kind == "asr"
		if auto {
			name += " (Auto)"
		}
		out = append(out, vo.AutoCaptionLanguage{
			ID:                 trackID(track),
			Language:           code,
			Name:               name,
			IsAutomaticCaption: auto,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func trackID(t transcriptTrack) string {
	if t.ID != "" {
		return t.ID
	}
	return t.LangCode
}
