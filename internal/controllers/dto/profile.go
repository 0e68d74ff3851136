package dto

import (
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"

	"github.com/google/uuid"
)

// LoadProfileRequest 是 loadProfile 的请求体，withCaptions 缺省为 true。
type LoadProfileRequest struct {
	ProfileID    string `json:"profileId" validate:"max=64"`
	WithCaptions *bool  `json:"withCaptions"`
}

// LoadPrivateDataRequest 是 loadPrivateCaptionerData 的请求体。
type LoadPrivateDataRequest struct {
	WithCaptions *bool `json:"withCaptions"`
}

// LoadUserCaptionsRequest 是 loadUserCaptions 的请求体。
type LoadUserCaptionsRequest struct {
	CaptionerID string   `json:"captionerId" validate:"max=64"`
	Tags        []string `json:"tags" validate:"max=50"`
	Limit       int      `json:"limit" validate:"gte=0,lte=500"`
	Offset      int      `json:"offset" validate:"gte=0"`
}

// ToInput 转换为服务层输入。
func (r *LoadUserCaptionsRequest) ToInput() services.UserCaptionsInput {
	return services.UserCaptionsInput{
		CaptionerID: r.CaptionerID,
		Tags:        r.Tags,
		Limit:       r.Limit,
		Offset:      r.Offset,
	}
}

// UpdateProfileRequest 是 updateCaptionerProfile 的请求体；userId 为空表示修改自己。
type UpdateProfileRequest struct {
	UserID         string   `json:"userId" validate:"omitempty,uuid"`
	Name           string   `json:"name" validate:"max=100"`
	DonationLink   string   `json:"donationLink" validate:"max=500"`
	ProfileMessage string   `json:"profileMessage" validate:"max=2000"`
	LanguageCodes  []string `json:"languageCodes" validate:"max=200"`
}

// ToInput 转换为服务层输入。
func (r *UpdateProfileRequest) ToInput() services.UpdateProfileInput {
	input := services.UpdateProfileInput{
		Name:           r.Name,
		DonationLink:   r.DonationLink,
		ProfileMessage: r.ProfileMessage,
		LanguageCodes:  r.LanguageCodes,
	}
	if id, err := uuid.Parse(r.UserID); err == nil {
		input.TargetUserID = id
	}
	return input
}

// TargetUserRequest 是角色切换接口的请求体。
type TargetUserRequest struct {
	TargetUserID string `json:"targetUserId" validate:"max=64"`
}

// DeleteProfileTagRequest 是 deleteProfileTag 的请求体。
type DeleteProfileTagRequest struct {
	TagName string `json:"tagName" validate:"required,max=100"`
}

// ProfileResponse 是 loadProfile 的响应。
type ProfileResponse struct {
	Success
	*vo.ProfileView
}

// PrivateDataResponse 是 loadPrivateCaptionerData 的响应。
type PrivateDataResponse struct {
	Success
	*vo.PrivateCaptionerData
}

// UpdatedProfileResponse 是 updateCaptionerProfile 的响应；档案不存在时没有字段。
type UpdatedProfileResponse struct {
	Success
	*vo.UpdatedProfile
}

// ProfileTagsResponse 是 getOwnProfileTags 的响应。
type ProfileTagsResponse struct {
	Success
	Tags []vo.TagCount `json:"tags"`
}
