package dto

import (
	"bytes"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"

	jsoniter "github.com/json-iterator/go"
)

// CaptionIDRequest 适用于只携带 captionId 的接口。
type CaptionIDRequest struct {
	CaptionID string `json:"captionId" validate:"max=64"`
}

// ReviewRequest 是 verifyCaption / rejectCaption 的请求体。
type ReviewRequest struct {
	CaptionID string `json:"captionId" validate:"max=64"`
	Reason    string `json:"reason" validate:"max=2000"`
}

// FindCaptionsRequest 是 findCaptions 的请求体。
type FindCaptionsRequest struct {
	VideoID     string     `json:"videoId" validate:"max=128"`
	VideoSource FlexString `json:"videoSource"`
}

// RawCaption 是高级格式原始字幕，data 为压缩后的文本。
type RawCaption struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// CaptionPayload 是 submitCaption 中的字幕主体。
type CaptionPayload struct {
	VideoID         string              `json:"videoId"`
	VideoSource     FlexString          `json:"videoSource"`
	Language        string              `json:"language"`
	TranslatedTitle string              `json:"translatedTitle"`
	Data            jsoniter.RawMessage `json:"data"`
}

// VideoPayload 是客户端附带的视频信息。
type VideoPayload struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// SubmitCaptionRequest 是 submitCaption 的请求体。
type SubmitCaptionRequest struct {
	Caption             CaptionPayload `json:"caption"`
	RawCaption          *RawCaption    `json:"rawCaption"`
	Video               VideoPayload   `json:"video"`
	HasAudioDescription bool           `json:"hasAudioDescription"`
	Privacy             *int16         `json:"privacy" validate:"omitempty,min=0,max=2"`
}

// ToInput 转换为服务层输入。
func (r *SubmitCaptionRequest) ToInput() services.SubmitCaptionInput {
	return services.SubmitCaptionInput{
		VideoID:             r.Caption.VideoID,
		VideoSource:         r.Caption.VideoSource.String(),
		Language:            r.Caption.Language,
		TranslatedTitle:     r.Caption.TranslatedTitle,
		Content:             rawJSON(r.Caption.Data),
		RawCaption:          r.RawCaption.toInput(),
		VideoName:           r.Video.Name,
		VideoLanguage:       r.Video.Language,
		HasAudioDescription: r.HasAudioDescription,
		Privacy:             toPrivacy(r.Privacy),
	}
}

// UpdateCaptionRequest 是 updateCaption 的请求体，缺省字段表示不修改。
type UpdateCaptionRequest struct {
	CaptionID           string              `json:"captionId" validate:"max=64"`
	RawCaption          *RawCaption         `json:"rawCaption"`
	CaptionData         jsoniter.RawMessage `json:"captionData"`
	HasAudioDescription *bool               `json:"hasAudioDescription"`
	TranslatedTitle     *string             `json:"translatedTitle"`
	SelectedTags        *[]string           `json:"selectedTags" validate:"omitempty,max=100"`
	Privacy             *int16              `json:"privacy" validate:"omitempty,min=0,max=2"`
}

// ToInput 转换为服务层输入。
func (r *UpdateCaptionRequest) ToInput() services.UpdateCaptionInput {
	input := services.UpdateCaptionInput{
		CaptionID:           r.CaptionID,
		RawCaption:          r.RawCaption.toInput(),
		HasAudioDescription: r.HasAudioDescription,
		TranslatedTitle:     r.TranslatedTitle,
		SelectedTags:        r.SelectedTags,
		Privacy:             toPrivacy(r.Privacy),
	}
	if content := rawJSON(r.CaptionData); content != "" {
		input.Content = &content
	}
	return input
}

// SubmitCaptionResponse 返回新字幕 ID。
type SubmitCaptionResponse struct {
	Success
	CaptionID string `json:"captionId"`
}

// LoadCaptionResponse 是 loadCaption 的响应。
type LoadCaptionResponse struct {
	Success
	*vo.LoadedCaption
}

// ReviewCaptionResponse 是 loadCaptionForReview 的响应。
type ReviewCaptionResponse struct {
	Success
	*vo.ReviewCaption
}

// FindCaptionsResponse 是 findCaptions 的响应。
type FindCaptionsResponse struct {
	Success
	Captions []vo.FoundCaption `json:"captions"`
}

// VoteResponse 是 likeCaption / dislikeCaption 的响应。
type VoteResponse struct {
	Success
	*vo.VoteResult
}

// ReviewResponse 是 verifyCaption / rejectCaption 的响应。
type ReviewResponse struct {
	Success
	*vo.ReviewResult
}

func (r *RawCaption) toInput() *services.RawCaptionInput {
	if r == nil || r.Data == "" {
		return nil
	}
	return &services.RawCaptionInput{Type: r.Type, Data: r.Data}
}

func toPrivacy(v *int16) *po.CaptionPrivacy {
	if v == nil {
		return nil
	}
	p := po.CaptionPrivacy(*v)
	return &p
}

// rawJSON 返回原始 JSON 文本；缺省或 null 时返回空串。
func rawJSON(raw jsoniter.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	return string(trimmed)
}
