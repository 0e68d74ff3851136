package vo

import (
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
)

// CaptionListFields 是字幕在列表中的展示记录，不包含字幕正文。
type CaptionListFields struct {
	ID              string   `json:"id"`
	Language        string   `json:"language"`
	VideoID         string   `json:"videoId"`
	VideoSource     string   `json:"videoSource"`
	CreatorID       string   `json:"creatorId"`
	CreatorName     string   `json:"creatorName"`
	VideoName       string   `json:"videoName"`
	VideoLanguage   string   `json:"videoLanguage"`
	Views           int64    `json:"views"`
	Likes           int32    `json:"likes"`
	Dislikes        int32    `json:"dislikes"`
	TranslatedTitle string   `json:"translatedTitle,omitempty"`
	Verified        bool     `json:"verified"`
	Rejected        *bool    `json:"rejected,omitempty"`
	CreatedDate     int64    `json:"createdDate"`
	UpdatedDate     int64    `json:"updatedDate"`
	Tags            []string `json:"tags"`
	Privacy         int16    `json:"privacy"`
}

// NewCaptionListFields 将 JOIN 结果映射为展示记录。
func NewCaptionListFields(row po.CaptionWithJoins) CaptionListFields {
	fields := CaptionListFields{
		ID:              row.ID.String(),
		Language:        row.Language,
		VideoID:         row.VideoID,
		VideoSource:     row.VideoSource,
		CreatorID:       row.CreatorID.String(),
		CreatorName:     derefString(row.CreatorName),
		VideoName:       derefString(row.VideoName),
		VideoLanguage:   derefString(row.VideoLanguage),
		Views:           row.Views,
		Likes:           row.Likes,
		Dislikes:        row.Dislikes,
		TranslatedTitle: row.TranslatedTitle,
		Verified:        row.Verified,
		CreatedDate:     unixSeconds(row.CreatedAt),
		UpdatedDate:     unixSeconds(row.UpdatedAt),
		Tags:            row.Tags,
		Privacy:         int16(row.EffectivePrivacy()),
	}
	if row.IsRejected() {
		rejected := true
		fields.Rejected = &rejected
	}
	if fields.Tags == nil {
		fields.Tags = []string{}
	}
	return fields
}

// NewCaptionListFieldsFromParts 组装未经 JOIN 的字幕与单独查询到的视频、作者。
func NewCaptionListFieldsFromParts(caption *po.Caption, video *po.Video, captioner *po.Captioner) CaptionListFields {
	row := po.CaptionWithJoins{Caption: *caption}
	if video != nil {
		row.VideoName = &video.Name
		row.VideoLanguage = &video.Language
	}
	if captioner != nil {
		row.CreatorName = &captioner.Name
	}
	return NewCaptionListFields(row)
}

// NewCaptionList 批量映射。
func NewCaptionList(rows []po.CaptionWithJoins) []CaptionListFields {
	out := make([]CaptionListFields, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCaptionListFields(row))
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func unixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
