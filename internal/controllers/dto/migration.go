package dto

import (
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"
)

// CreateVideoRequest 是 createVideo 的请求体。
type CreateVideoRequest struct {
	VideoID     string            `json:"videoId" validate:"required,max=128"`
	VideoSource FlexString        `json:"videoSource"`
	NameMap     map[string]string `json:"nameMap"`
}

// ToInput 转换为服务层输入。
func (r *CreateVideoRequest) ToInput() services.CreateVideoInput {
	return services.CreateVideoInput{
		VideoID:     r.VideoID,
		VideoSource: r.VideoSource.String(),
		NameMap:     r.NameMap,
	}
}

// BatchVideosRequest 是 createBatchYoutubeVideos 的请求体。
type BatchVideosRequest struct {
	VideoIDs []string          `json:"videoIds" validate:"max=100000"`
	NameMap  map[string]string `json:"nameMap"`
}

// CaptionerWithoutUserRequest 是 migrationCreateCaptionerWithoutUser 的请求体。
type CaptionerWithoutUserRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"required,email"`
}

// ImportCaptionRequest 是 migrationCreateCaption 的请求体。
type ImportCaptionRequest struct {
	Content      string `json:"content"`
	VideoID      string `json:"videoId" validate:"max=128"`
	LanguageCode string `json:"languageCode" validate:"max=16"`
	CreatedDate  string `json:"createdDate"`
	UserID       string `json:"userId" validate:"max=64"`
	Email        string `json:"email" validate:"omitempty,email"`
}

// ToInput 转换为服务层输入。
func (r *ImportCaptionRequest) ToInput() services.ImportCaptionInput {
	return services.ImportCaptionInput{
		Content:      r.Content,
		VideoID:      r.VideoID,
		LanguageCode: r.LanguageCode,
		CreatedDate:  r.CreatedDate,
		Email:        r.Email,
		UserID:       r.UserID,
	}
}

// MigrationResponse 是迁移接口的响应，status 由服务层给出。
type MigrationResponse struct {
	*vo.MigrationResult
}
