package po

import (
	"time"

	"github.com/google/uuid"
)

// PlaceholderNameTag 是尚未设置昵称的作者的 nameTag。
const PlaceholderNameTag int32 = 99999

// Captioner 表示 captions.captioners 表的一行（作者公开档案）。
// UserID 为空表示迁移导入、尚未关联账号的作者。
type Captioner struct {
	ID                 uuid.UUID
	UserID             *uuid.UUID
	Name               string
	NameTag            int32
	CaptionCount       int32
	Verified           bool
	Banned             bool
	LastSubmissionTime *time.Time
	DonationLink       string
	ProfileMessage     string
	Languages          []string
	CaptionTags        []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CaptionerPrivate 表示 captions.captioner_private 表的一行，仅本人与管理员可见。
type CaptionerPrivate struct {
	CaptionerID uuid.UUID
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CaptionLikes 表示 captions.caption_likes 表的一行；同一字幕 ID 不会同时出现在两个列表。
type CaptionLikes struct {
	UserID   uuid.UUID
	Likes    []uuid.UUID
	Dislikes []uuid.UUID
}

// Role 是 captions.user_roles.role 的取值。
type Role string

// 角色常量。
const (
	RoleSuperAdmin      Role = "superadmin"
	RoleAdmin           Role = "admin"
	RoleReviewerManager Role = "reviewerManager"
	RoleReviewer        Role = "reviewer"
)

// LanguageTotal 是按语言分组的聚合值。
type LanguageTotal struct {
	Language string
	Total    int64
}
