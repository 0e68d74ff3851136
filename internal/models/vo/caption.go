package vo

import "github.com/bionicotaku/lingo-services-captions/internal/models/po"

// CaptionDetail 是单条字幕的完整视图，包含正文，仅用于 loadCaption 与审核。
type CaptionDetail struct {
	ID                  string           `json:"id"`
	CreatorID           string           `json:"creatorId"`
	VideoID             string           `json:"videoId"`
	VideoSource         string           `json:"videoSource"`
	Language            string           `json:"language"`
	Content             string           `json:"data"`
	RawContent          string           `json:"rawContent,omitempty"`
	TranslatedTitle     string           `json:"translatedTitle"`
	Tags                []string         `json:"tags"`
	Privacy             int16            `json:"privacy"`
	Verified            bool             `json:"verified"`
	Rejected            bool             `json:"rejected"`
	Views               int64            `json:"views"`
	Likes               int32            `json:"likes"`
	Dislikes            int32            `json:"dislikes"`
	HasAudioDescription bool             `json:"hasAudioDescription"`
	ReviewHistory       []po.ReviewEntry `json:"reviewHistory"`
	CreatedDate         int64            `json:"createdDate"`
	UpdatedDate         int64            `json:"updatedDate"`
}

// NewCaptionDetail 构造 CaptionDetail。
func NewCaptionDetail(c *po.Caption) CaptionDetail {
	detail := CaptionDetail{
		ID:                  c.ID.String(),
		CreatorID:           c.CreatorID.String(),
		VideoID:             c.VideoID,
		VideoSource:         c.VideoSource,
		Language:            c.Language,
		Content:             c.Content,
		RawContent:          derefString(c.RawContent),
		TranslatedTitle:     c.TranslatedTitle,
		Tags:                c.Tags,
		Privacy:             int16(c.EffectivePrivacy()),
		Verified:            c.Verified,
		Rejected:            c.IsRejected(),
		Views:               c.Views,
		Likes:               c.Likes,
		Dislikes:            c.Dislikes,
		HasAudioDescription: c.HasAudioDescription,
		ReviewHistory:       c.ReviewHistory,
		CreatedDate:         unixSeconds(c.CreatedAt),
		UpdatedDate:         unixSeconds(c.UpdatedAt),
	}
	if detail.Tags == nil {
		detail.Tags = []string{}
	}
	if detail.ReviewHistory == nil {
		detail.ReviewHistory = []po.ReviewEntry{}
	}
	return detail
}

// LoadedCaption 是 loadCaption 的返回体。
type LoadedCaption struct {
	Caption       CaptionDetail `json:"caption"`
	RawCaptionURL string        `json:"rawCaptionUrl,omitempty"`
	OriginalTitle string        `json:"originalTitle"`
	CaptionerName string        `json:"captionerName"`
	UserLike      bool          `json:"userLike"`
	UserDislike   bool          `json:"userDislike"`
}

// ReviewCaption 是 loadCaptionForReview 的返回体。
type ReviewCaption struct {
	Caption   CaptionDetail    `json:"caption"`
	Captioner *CaptionerFields `json:"captioner,omitempty"`
	VideoName string           `json:"videoName"`
}

// VoteResult 描述一次投票后的计数与用户状态。
type VoteResult struct {
	Likes       int32 `json:"likes"`
	Dislikes    int32 `json:"dislikes"`
	UserLike    bool  `json:"userLike"`
	UserDislike bool  `json:"userDislike"`
}

// ReviewResult 描述审核操作后的状态。
type ReviewResult struct {
	Verified bool   `json:"verified"`
	Rejected bool   `json:"rejected"`
	NewState string `json:"newState"`
}

// FoundCaption 是 findCaptions 中单条字幕的摘要。
type FoundCaption struct {
	ID            string   `json:"id"`
	CaptionerID   string   `json:"captionerId"`
	CaptionerName string   `json:"captionerName"`
	Verified      bool     `json:"verified"`
	Likes         int32    `json:"likes"`
	Dislikes      int32    `json:"dislikes"`
	LanguageCode  string   `json:"languageCode"`
	Tags          []string `json:"tags"`
	Advanced      bool     `json:"advanced"`
}

// NewFoundCaption 由 JOIN 行构造摘要；Advanced 表示字幕带有原始高级格式文件。
func NewFoundCaption(row po.CaptionWithJoins) FoundCaption {
	found := FoundCaption{
		ID:            row.ID.String(),
		CaptionerID:   row.CreatorID.String(),
		CaptionerName: derefString(row.CreatorName),
		Verified:      row.Verified,
		Likes:         row.Likes,
		Dislikes:      row.Dislikes,
		LanguageCode:  row.Language,
		Tags:          row.Tags,
		Advanced:      row.RawContent != nil && *row.RawContent != "",
	}
	if found.Tags == nil {
		found.Tags = []string{}
	}
	return found
}
