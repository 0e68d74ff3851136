package clients

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OEmbedClient 通过 oEmbed 代理查询视频标题。
type OEmbedClient struct {
	endpoint string
	client   *resilientClient
}

// NewOEmbedClient 构造 oEmbed 客户端。
func NewOEmbedClient(cfg configloader.HTTPClientConfig, logger log.Logger) *OEmbedClient {
	return &OEmbedClient{
		endpoint: cfg.Endpoint,
		client:   newResilientClient("oembed", cfg, logger),
	}
}

// ProvideOEmbedClient 供 Wire 使用。
func ProvideOEmbedClient(cfg configloader.ClientsConfig, logger log.Logger) *OEmbedClient {
	return NewOEmbedClient(cfg.OEmbed, logger)
}

type oembedResponse struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// VideoLink 返回视频在来源平台上的公开链接，未知来源返回空串。
func VideoLink(source, videoID string) string {
	switch source {
	case po.VideoSourceYoutube:
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
	case po.VideoSourceVimeo:
		return "https://vimeo.com/" + url.PathEscape(videoID)
	default:
		return ""
	}
}

// FetchTitle 查询视频标题。未知来源返回空串且不报错。
func (c *OEmbedClient) FetchTitle(ctx context.Context, source, videoID string) (string, error) {
	if c == nil {
		return "", nil
	}
	link := VideoLink(source, videoID)
	if link == "" {
		return "", nil
	}
	body, err := c.client.get(ctx, c.endpoint+"?url="+url.QueryEscape(link))
	if err != nil {
		return "", err
	}
	var resp oembedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("oembed: decode response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("oembed: %s", resp.Error)
	}
	return strings.TrimSpace(resp.Title), nil
}
