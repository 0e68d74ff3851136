package vo

import (
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
)

// CaptionerFields 是作者公开档案视图。
type CaptionerFields struct {
	Name               string   `json:"name"`
	NameTag            int32    `json:"nameTag"`
	ProfileMessage     string   `json:"profileMessage"`
	UserID             string   `json:"userId"`
	Verified           bool     `json:"verified"`
	Banned             bool     `json:"banned"`
	LastSubmissionTime int64    `json:"lastSubmissionTime"` // 毫秒
	DonationLink       string   `json:"donationLink"`
	LanguageCodes      []string `json:"languageCodes"`
	CaptionCount       int32    `json:"captionCount"`
	CaptionTags        []string `json:"captionTags"`
	IsAdmin            bool     `json:"isAdmin"`
	IsReviewer         bool     `json:"isReviewer"`
	IsReviewerManager  bool     `json:"isReviewerManager"`
}

// NewCaptionerFields 组合档案行与角色。userID 取调用方查询所用的账号 ID。
func NewCaptionerFields(userID string, c *po.Captioner, roles RoleSet) *CaptionerFields {
	if c == nil {
		return nil
	}
	fields := &CaptionerFields{
		Name:              c.Name,
		NameTag:           c.NameTag,
		ProfileMessage:    c.ProfileMessage,
		UserID:            userID,
		Verified:          c.Verified,
		Banned:            c.Banned,
		DonationLink:      c.DonationLink,
		LanguageCodes:     c.Languages,
		CaptionCount:      c.CaptionCount,
		CaptionTags:       c.CaptionTags,
		IsAdmin:           roles.Admin,
		IsReviewer:        roles.Reviewer,
		IsReviewerManager: roles.ReviewerManager,
	}
	if c.LastSubmissionTime != nil {
		fields.LastSubmissionTime = c.LastSubmissionTime.UnixMilli()
	}
	if fields.LanguageCodes == nil {
		fields.LanguageCodes = []string{}
	}
	if fields.CaptionTags == nil {
		fields.CaptionTags = []string{}
	}
	return fields
}

// ProfileView 是 loadProfile 的返回体。
type ProfileView struct {
	Captions  []CaptionListFields `json:"captions"`
	Captioner *CaptionerFields    `json:"captioner"`
}

// PrivateCaptionerData 是 loadPrivateCaptionerData 的返回体。
type PrivateCaptionerData struct {
	Captions       []CaptionListFields `json:"captions"`
	Captioner      *CaptionerFields    `json:"captioner"`
	PrivateProfile PrivateProfile      `json:"privateProfile"`
}

// UpdatedProfile 是 updateCaptionerProfile 的返回体。
type UpdatedProfile struct {
	Captioner      *CaptionerFields `json:"captioner"`
	PrivateProfile PrivateProfile   `json:"privateProfile"`
}

// CaptionPage 是带分页哨兵的字幕列表。
type CaptionPage struct {
	Captions      []CaptionListFields `json:"captions"`
	HasMore       bool                `json:"hasMore"`
	TagsTruncated bool                `json:"tagsTruncated,omitempty"`
}

// BrowseResult 是 browse 的返回体。
type BrowseResult struct {
	Captions       []CaptionListFields `json:"captions"`
	HasMoreResults bool                `json:"hasMoreResults"`
	TotalCount     int64               `json:"totalCount"`
}

// TagCount 是单个分组标签的字幕数量。
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
