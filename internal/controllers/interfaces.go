package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"

	"github.com/google/uuid"
)

// 控制器只依赖下列用例接口，由 cmd 中的 Wire 绑定到 services 的具体实现。

// AuthResolver 将网关给出的用户 ID 解析为带角色的身份。
type AuthResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, sessionToken string) (metadata.AuthContext, error)
}

// ModeReader 读取当前运行模式。
type ModeReader interface {
	Mode(ctx context.Context) (vo.OperationalMode, error)
}

// CaptionUseCases 对应字幕的读写接口。
type CaptionUseCases interface {
	Submit(ctx context.Context, auth metadata.AuthContext, input services.SubmitCaptionInput) (string, error)
	Update(ctx context.Context, auth metadata.AuthContext, input services.UpdateCaptionInput) error
	Delete(ctx context.Context, auth metadata.AuthContext, captionID string) error
	Load(ctx context.Context, auth metadata.AuthContext, captionID string) (*vo.LoadedCaption, error)
	LoadForReview(ctx context.Context, auth metadata.AuthContext, captionID string) (*vo.ReviewCaption, error)
	Find(ctx context.Context, auth metadata.AuthContext, videoID, videoSource string) ([]vo.FoundCaption, error)
}

// VoteUseCases 对应点赞与点踩。
type VoteUseCases interface {
	Like(ctx context.Context, auth metadata.AuthContext, captionID string) (*vo.VoteResult, error)
	Dislike(ctx context.Context, auth metadata.AuthContext, captionID string) (*vo.VoteResult, error)
}

// ReviewUseCases 对应审核操作。
type ReviewUseCases interface {
	Verify(ctx context.Context, auth metadata.AuthContext, captionID, reason string) (*vo.ReviewResult, error)
	Reject(ctx context.Context, auth metadata.AuthContext, captionID, reason string) (*vo.ReviewResult, error)
}

// DiscoveryUseCases 对应发现页列表。
type DiscoveryUseCases interface {
	Latest(ctx context.Context) (vo.CaptionPage, error)
	LatestLanguage(ctx context.Context, languageCode string) (vo.CaptionPage, error)
	Popular(ctx context.Context, auth metadata.AuthContext) (vo.CaptionPage, error)
	Browse(ctx context.Context, limit, offset int) (vo.BrowseResult, error)
}

// SearchUseCases 对应视频搜索。
type SearchUseCases interface {
	Search(ctx context.Context, input services.SearchInput) (vo.SearchResult, error)
}

// ProfileUseCases 对应作者档案接口。
type ProfileUseCases interface {
	LoadProfile(ctx context.Context, auth metadata.AuthContext, profileID string, withCaptions bool) (*vo.ProfileView, error)
	LoadPrivateCaptionerData(ctx context.Context, auth metadata.AuthContext, withCaptions bool) (*vo.PrivateCaptionerData, error)
	LoadUserCaptions(ctx context.Context, auth metadata.AuthContext, input services.UserCaptionsInput) (vo.CaptionPage, error)
	UpdateCaptionerProfile(ctx context.Context, auth metadata.AuthContext, input services.UpdateProfileInput) (*vo.UpdatedProfile, error)
}

// RoleUseCases 对应角色与作者标志切换。
type RoleUseCases interface {
	AssignReviewer(ctx context.Context, auth metadata.AuthContext, targetUserID string) error
	AssignReviewerManager(ctx context.Context, auth metadata.AuthContext, targetUserID string) error
	VerifyCaptioner(ctx context.Context, auth metadata.AuthContext, targetUserID string) error
	BanCaptioner(ctx context.Context, auth metadata.AuthContext, targetUserID string) error
}

// TagUseCases 对应作者分组标签。
type TagUseCases interface {
	OwnProfileTags(ctx context.Context, auth metadata.AuthContext) ([]vo.TagCount, error)
	DeleteProfileTag(ctx context.Context, auth metadata.AuthContext, tagName string) error
}

// StatsUseCases 对应全站统计。
type StatsUseCases interface {
	Global(ctx context.Context) (*vo.GlobalStats, error)
}

// AutoCaptionUseCases 对应平台自动字幕列表。
type AutoCaptionUseCases interface {
	List(ctx context.Context, videoID, videoSource string) ([]vo.AutoCaptionLanguage, error)
}

// MigrationUseCases 对应旧站数据导入。
type MigrationUseCases interface {
	CreateVideo(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, input services.CreateVideoInput) (*vo.MigrationResult, error)
	CreateBatchYoutubeVideos(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, videoIDs []string, nameMap map[string]string) (*vo.MigrationResult, error)
	CreateCaptionerWithoutUser(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, name, email string) (*vo.MigrationResult, error)
	CreateCaption(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, input services.ImportCaptionInput) (*vo.MigrationResult, error)
}

// UseCases 聚合路由需要的全部用例，便于 Wire 以结构体注入。
type UseCases struct {
	Captions    CaptionUseCases
	Votes       VoteUseCases
	Reviews     ReviewUseCases
	Discovery   DiscoveryUseCases
	Search      SearchUseCases
	Profiles    ProfileUseCases
	Roles       RoleUseCases
	Tags        TagUseCases
	Stats       StatsUseCases
	AutoCaption AutoCaptionUseCases
	Migration   MigrationUseCases
}
