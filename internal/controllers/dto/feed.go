package dto

import (
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"
)

// Empty 是无参数接口的请求体。
type Empty struct{}

// LanguageRequest 是 loadLatestLanguageCaptions 的请求体。
type LanguageRequest struct {
	LanguageCode string `json:"languageCode" validate:"max=16"`
}

// BrowseRequest 是 browse 的请求体。
type BrowseRequest struct {
	Limit  int `json:"limit" validate:"gte=0,lte=100"`
	Offset int `json:"offset" validate:"gte=0"`
}

// SearchRequest 是 search 的请求体，语言为空或 "any" 表示不限。
type SearchRequest struct {
	Title               string `json:"title" validate:"max=250"`
	VideoLanguageCode   string `json:"videoLanguageCode" validate:"max=16"`
	CaptionLanguageCode string `json:"captionLanguageCode" validate:"max=16"`
	Limit               int    `json:"limit" validate:"gte=0"`
	Offset              int    `json:"offset" validate:"gte=0"`
}

// ToInput 转换为服务层输入。
func (r *SearchRequest) ToInput() services.SearchInput {
	return services.SearchInput{
		Title:               r.Title,
		VideoLanguageCode:   r.VideoLanguageCode,
		CaptionLanguageCode: r.CaptionLanguageCode,
		Limit:               r.Limit,
		Offset:              r.Offset,
	}
}

// AutoCaptionRequest 是 getAutoCaptionList 的请求体。
type AutoCaptionRequest struct {
	VideoID     string     `json:"videoId" validate:"max=128"`
	VideoSource FlexString `json:"videoSource"`
}

// CaptionPageResponse 是分页字幕列表的响应。
type CaptionPageResponse struct {
	Success
	vo.CaptionPage
}

// BrowseResponse 是 browse 的响应。
type BrowseResponse struct {
	Success
	vo.BrowseResult
}

// SearchResponse 是 search 的响应。
type SearchResponse struct {
	Success
	vo.SearchResult
}

// StatsResponse 是 globalStats 的响应。
type StatsResponse struct {
	Success
	*vo.GlobalStats
}

// AutoCaptionResponse 是 getAutoCaptionList 的响应。
type AutoCaptionResponse struct {
	Success
	Captions []vo.AutoCaptionLanguage `json:"captions"`
}
