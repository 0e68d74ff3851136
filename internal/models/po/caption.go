// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射 captions schema 下的表结构，不直接暴露给传输层。
package po

import (
	"time"

	"github.com/google/uuid"
)

// CaptionPrivacy 对应 captions.captions.privacy，NULL 视为 Public。
type CaptionPrivacy int16

// 字幕可见性取值。
const (
	PrivacyPublic   CaptionPrivacy = 0 // 出现在发现列表
	PrivacyUnlisted CaptionPrivacy = 1 // 仅凭链接访问
	PrivacyPrivate  CaptionPrivacy = 2 // 仅作者可见
)

// Valid 判断取值是否合法。
func (p CaptionPrivacy) Valid() bool {
	return p >= PrivacyPublic && p <= PrivacyPrivate
}

// 审核历史中的 newState 取值。
const (
	ReviewStateVerified   = "verified"
	ReviewStateUnverified = "unverified"
	ReviewStateRejected   = "rejected"
	ReviewStateUnrejected = "unrejected"
)

// ReviewEntry 是 review_history JSONB 数组中的一条记录，只追加不改写。
type ReviewEntry struct {
	ReviewerID   string `json:"reviewerId"`
	ReviewerName string `json:"reviewerName"`
	NewState     string `json:"newState"`
	Reason       string `json:"reason,omitempty"`
	Date         int64  `json:"date"`
}

// Caption 表示 captions.captions 表的一行。
type Caption struct {
	ID                  uuid.UUID
	CreatorID           uuid.UUID
	VideoID             string
	VideoSource         string
	Language            string
	Content             string
	RawFile             *string // GCS 对象名
	RawContent          *string // 原始格式元数据 JSON（不含数据本体）
	TranslatedTitle     string
	Tags                []string
	Privacy             *CaptionPrivacy
	Verified            bool
	Rejected            *bool
	Views               int64
	Likes               int32
	Dislikes            int32
	HasAudioDescription bool
	ReviewHistory       []ReviewEntry
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EffectivePrivacy 返回归一化后的可见性，NULL 视为 Public。
func (c *Caption) EffectivePrivacy() CaptionPrivacy {
	if c == nil || c.Privacy == nil {
		return PrivacyPublic
	}
	return *c.Privacy
}

// IsPublic 判断字幕是否计入公开计数器。
func (c *Caption) IsPublic() bool {
	return c.EffectivePrivacy() == PrivacyPublic
}

// IsRejected 判断是否处于驳回状态。
func (c *Caption) IsRejected() bool {
	return c != nil && c.Rejected != nil && *c.Rejected
}

// CaptionWithJoins 是列表查询的行：字幕本体加上 LATERAL JOIN 出的视频与作者字段。
// 关联行缺失时对应字段为 nil。
type CaptionWithJoins struct {
	Caption
	VideoName     *string
	VideoLanguage *string
	CreatorName   *string
}
