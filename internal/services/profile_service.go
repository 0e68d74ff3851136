package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	profileCaptionsLimit = 50
	nameTagAttempts      = 3
	maxNameTag           = 9999
)

// UpdateProfileInput 描述 updateCaptionerProfile 的参数。
type UpdateProfileInput struct {
	TargetUserID   uuid.UUID // 为空表示修改自己
	Name           string
	DonationLink   string
	ProfileMessage string
	LanguageCodes  []string
}

// UserCaptionsInput 描述 loadUserCaptions 的参数。
type UserCaptionsInput struct {
	CaptionerID string
	Tags        []string
	Limit       int
	Offset      int
}

// ProfileService 负责作者档案的读取与编辑。
type ProfileService struct {
	captioners CaptionerStore
	privates   CaptionerPrivateStore
	profiles   *ProfileResolver
	lister     *captionLister
	txManager  txmanager.Manager
	nameTag    func() int32
	log        *log.Helper
}

// NewProfileService 构造 ProfileService。
func NewProfileService(
	captions CaptionStore,
	captioners CaptionerStore,
	privates CaptionerPrivateStore,
	profiles *ProfileResolver,
	tx txmanager.Manager,
	limits configloader.LimitsConfig,
	logger log.Logger,
) *ProfileService {
	helper := log.NewHelper(logger)
	return &ProfileService{
		captioners: captioners,
		privates:   privates,
		profiles:   profiles,
		lister:     newCaptionLister(captions, limits.MaxSearchTags, helper),
		txManager:  tx,
		nameTag:    randomNameTag,
		log:        helper,
	}
}

// WithNameTagSource 替换 nameTag 的随机源。
func (s *ProfileService) WithNameTagSource(fn func() int32) *ProfileService {
	if fn != nil {
		s.nameTag = fn
	}
	return s
}

// LoadProfile 返回公开档案；withCaptions 为 true 时附带最近 50 条字幕。
func (s *ProfileService) LoadProfile(ctx context.Context, auth metadata.AuthContext, profileID string, withCaptions bool) (*vo.ProfileView, error) {
	userID, ok := parseID(profileID)
	if !ok {
		return &vo.ProfileView{Captions: []vo.CaptionListFields{}}, nil
	}
	captions, err := s.captionerCaptions(ctx, auth, userID, withCaptions)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Profile(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return &vo.ProfileView{Captions: captions, Captioner: profile}, nil
}

// LoadPrivateCaptionerData 返回本人的字幕、档案与角色标记。
func (s *ProfileService) LoadPrivateCaptionerData(ctx context.Context, auth metadata.AuthContext, withCaptions bool) (*vo.PrivateCaptionerData, error) {
	if !auth.Authenticated() {
		return nil, errNotLoggedIn()
	}
	captions, err := s.captionerCaptions(ctx, auth, auth.UserID, withCaptions)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Profile(ctx, nil, auth.UserID)
	if err != nil {
		return nil, err
	}
	return &vo.PrivateCaptionerData{
		Captions:       captions,
		Captioner:      profile,
		PrivateProfile: vo.PrivateProfileFromRoles(auth.Roles),
	}, nil
}

// LoadUserCaptions 分页列出某作者的字幕，本人可见自己的非公开字幕。
func (s *ProfileService) LoadUserCaptions(ctx context.Context, auth metadata.AuthContext, input UserCaptionsInput) (vo.CaptionPage, error) {
	captionerID, ok := parseID(input.CaptionerID)
	if !ok {
		return vo.CaptionPage{Captions: []vo.CaptionListFields{}}, nil
	}
	limit := input.Limit
	if limit <= 0 {
		limit = profileCaptionsLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}
	return s.lister.page(ctx, captionquery.Filter{
		Limit:       limit,
		Offset:      offset,
		CaptionerID: captionerID,
		UserID:      auth.UserID,
		GetRejected: true,
		Tags:        input.Tags,
	})
}

// UpdateCaptionerProfile 更新档案。昵称只能在为空时设置一次，并分配未被占用的随机 nameTag。
// 只有管理员可以修改他人的档案。档案不存在时返回 nil。
func (s *ProfileService) UpdateCaptionerProfile(ctx context.Context, auth metadata.AuthContext, input UpdateProfileInput) (*vo.UpdatedProfile, error) {
	if !auth.Authenticated() {
		return nil, errNotLoggedIn()
	}
	target := auth.UserID
	if input.TargetUserID != uuid.Nil && input.TargetUserID != auth.UserID {
		if !auth.Roles.Admin {
			return nil, errDenied(MsgNotAuthorized)
		}
		target = input.TargetUserID
	}

	var result *vo.UpdatedProfile
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		captioner, err := s.profiles.Captioner(txCtx, sess, target)
		if err != nil {
			return err
		}
		if captioner == nil {
			return nil
		}
		if _, err := s.captioners.UpdateProfile(txCtx, sess, target, repositories.UpdateCaptionerProfileInput{
			DonationLink:   input.DonationLink,
			ProfileMessage: input.ProfileMessage,
			Languages:      input.LanguageCodes,
		}); err != nil {
			return err
		}

		if captioner.Name == "" && input.Name != "" {
			if err := s.assignName(txCtx, sess, target, input.Name); err != nil {
				return err
			}
		}

		if _, err := s.privates.Get(txCtx, sess, target); err != nil {
			if errors.Is(err, repositories.ErrCaptionerPrivateNotFound) {
				return errNotFound(MsgMissingPrivateData)
			}
			return err
		}

		profile, err := s.profiles.Profile(txCtx, sess, target)
		if err != nil {
			return err
		}
		roles, err := s.profiles.Roles(txCtx, sess, target)
		if err != nil {
			return err
		}
		result = &vo.UpdatedProfile{Captioner: profile, PrivateProfile: vo.PrivateProfileFromRoles(roles)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result != nil {
		s.log.WithContext(ctx).Infof("captioner profile updated: user=%s by=%s", target, auth.UserID)
	}
	return result, nil
}

func (s *ProfileService) assignName(ctx context.Context, sess txmanager.Session, userID uuid.UUID, name string) error {
	for attempt := 0; attempt < nameTagAttempts; attempt++ {
		tag := s.nameTag()
		taken, err := s.captioners.NameTagTaken(ctx, sess, name, tag, userID)
		if err != nil {
			return err
		}
		if !taken {
			if err := s.captioners.SetName(ctx, sess, userID, name, tag); err != nil {
				return fmt.Errorf("set captioner name: %w", err)
			}
			return nil
		}
	}
	return errValidation(MsgNameCollision)
}

func (s *ProfileService) captionerCaptions(ctx context.Context, auth metadata.AuthContext, captionerID uuid.UUID, withCaptions bool) ([]vo.CaptionListFields, error) {
	if !withCaptions {
		return []vo.CaptionListFields{}, nil
	}
	page, err := s.lister.page(ctx, captionquery.Filter{
		Limit:       profileCaptionsLimit,
		CaptionerID: captionerID,
		UserID:      auth.UserID,
		GetRejected: true,
	})
	if err != nil {
		return nil, err
	}
	return page.Captions, nil
}

func randomNameTag() int32 {
	return rand.Int32N(maxNameTag + 1)
}
