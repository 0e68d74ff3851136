package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// ProfileResolver 解析调用方身份，并组装作者档案视图。
type ProfileResolver struct {
	roles      RoleStore
	captioners CaptionerStore
	log        *log.Helper
}

// NewProfileResolver 构造 ProfileResolver。
func NewProfileResolver(roles RoleStore, captioners CaptionerStore, logger log.Logger) *ProfileResolver {
	return &ProfileResolver{
		roles:      roles,
		captioners: captioners,
		log:        log.NewHelper(logger),
	}
}

// Resolve 为已认证用户加载角色，匿名用户直接返回匿名身份。
func (r *ProfileResolver) Resolve(ctx context.Context, userID uuid.UUID, sessionToken string) (metadata.AuthContext, error) {
	if userID == uuid.Nil {
		return metadata.Anonymous(), nil
	}
	roles, err := r.Roles(ctx, nil, userID)
	if err != nil {
		return metadata.Anonymous(), err
	}
	return metadata.AuthContext{UserID: userID, Roles: roles, SessionToken: sessionToken}, nil
}

// Roles 返回用户的有效权限集合。
func (r *ProfileResolver) Roles(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (vo.RoleSet, error) {
	if userID == uuid.Nil {
		return vo.RoleSet{}, nil
	}
	raw, err := r.roles.ListRoles(ctx, sess, userID)
	if err != nil {
		return vo.RoleSet{}, fmt.Errorf("resolve roles: %w", err)
	}
	return vo.ResolveRoles(raw), nil
}

// Captioner 返回用户的作者档案，不存在时返回 nil。
func (r *ProfileResolver) Captioner(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.Captioner, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	captioner, err := r.captioners.GetByUserID(ctx, sess, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptionerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load captioner: %w", err)
	}
	return captioner, nil
}

// Profile 返回带角色标记的作者公开档案，不存在时返回 nil。
func (r *ProfileResolver) Profile(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*vo.CaptionerFields, error) {
	captioner, err := r.Captioner(ctx, sess, userID)
	if err != nil || captioner == nil {
		return nil, err
	}
	roles, err := r.Roles(ctx, sess, userID)
	if err != nil {
		return nil, err
	}
	return vo.NewCaptionerFields(userID.String(), captioner, roles), nil
}
