package vo

import "github.com/bionicotaku/lingo-services-captions/internal/models/po"

// VideoFields 是视频的展示视图。
type VideoFields struct {
	ID           string           `json:"id"`
	SourceID     string           `json:"sourceId"`
	Source       string           `json:"source"`
	Name         string           `json:"name"`
	Language     string           `json:"language"`
	CaptionCount int32            `json:"captionCount"`
	Captions     map[string]int32 `json:"captions"`
	CreatedDate  int64            `json:"createdDate"`
	UpdatedDate  int64            `json:"updatedDate"`
}

// NewVideoFields 构造 VideoFields。
func NewVideoFields(v *po.Video) VideoFields {
	fields := VideoFields{
		ID:           v.ID.String(),
		SourceID:     v.SourceID,
		Source:       v.Source,
		Name:         v.Name,
		Language:     v.Language,
		CaptionCount: v.CaptionCount,
		Captions:     v.Captions,
		CreatedDate:  unixSeconds(v.CreatedAt),
		UpdatedDate:  unixSeconds(v.UpdatedAt),
	}
	if fields.Captions == nil {
		fields.Captions = map[string]int32{}
	}
	return fields
}

// SearchResult 是 search 的返回体。
type SearchResult struct {
	Videos         []VideoFields `json:"videos"`
	HasMoreResults bool          `json:"hasMoreResults"`
}

// AutoCaptionLanguage 是平台自动字幕轨道的描述。
type AutoCaptionLanguage struct {
	ID                 string `json:"id"`
	Language           string `json:"language"`
	Name               string `json:"name"`
	IsAutomaticCaption bool   `json:"isAutomaticCaption"`
}

// MigrationResult 描述迁移接口的处理结果。
type MigrationResult struct {
	Status  string `json:"status"`
	Name    string `json:"name,omitempty"`
	Added   int    `json:"added,omitempty"`
	Skipped int    `json:"skipped,omitempty"`
	ID      string `json:"id,omitempty"`
}

// 迁移结果状态。
const (
	MigrationStatusSuccess = "success"
	MigrationStatusFailed  = "failed"
	MigrationStatusAdded   = "added"
	MigrationStatusSkipped = "skipped"
)
