package services

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// RoleService 处理角色授予与作者认证、封禁。所有操作都是开关语义。
type RoleService struct {
	roles      RoleStore
	captioners CaptionerStore
	profiles   *ProfileResolver
	txManager  txmanager.Manager
	log        *log.Helper
}

// NewRoleService 构造 RoleService。
func NewRoleService(roles RoleStore, captioners CaptionerStore, profiles *ProfileResolver, tx txmanager.Manager, logger log.Logger) *RoleService {
	return &RoleService{
		roles:      roles,
		captioners: captioners,
		profiles:   profiles,
		txManager:  tx,
		log:        log.NewHelper(logger),
	}
}

// AssignReviewer 授予或撤销 reviewer 角色，需 admin 或 reviewerManager。
func (s *RoleService) AssignReviewer(ctx context.Context, auth metadata.AuthContext, targetUserID string) error {
	if !auth.Authenticated() {
		return errNotLoggedIn()
	}
	if !auth.Roles.CanManageReviewers() {
		return errDenied(MsgNotAuthorized)
	}
	return s.toggleRole(ctx, auth, targetUserID, po.RoleReviewer)
}

// AssignReviewerManager 授予或撤销 reviewerManager 角色，仅 admin。
func (s *RoleService) AssignReviewerManager(ctx context.Context, auth metadata.AuthContext, targetUserID string) error {
	if !auth.Authenticated() {
		return errNotLoggedIn()
	}
	if !auth.Roles.Admin {
		return errDenied(MsgNotAuthorized)
	}
	return s.toggleRole(ctx, auth, targetUserID, po.RoleReviewerManager)
}

// VerifyCaptioner 切换作者认证标记，仅 admin。
func (s *RoleService) VerifyCaptioner(ctx context.Context, auth metadata.AuthContext, targetUserID string) error {
	return s.toggleCaptioner(ctx, auth, targetUserID, "verified", func(txCtx context.Context, sess txmanager.Session, userID uuid.UUID, current bool) error {
		return s.captioners.SetVerified(txCtx, sess, userID, !current)
	}, func(c *po.Captioner) bool { return c.Verified })
}

// BanCaptioner 切换作者封禁标记，仅 admin。
func (s *RoleService) BanCaptioner(ctx context.Context, auth metadata.AuthContext, targetUserID string) error {
	return s.toggleCaptioner(ctx, auth, targetUserID, "banned", func(txCtx context.Context, sess txmanager.Session, userID uuid.UUID, current bool) error {
		return s.captioners.SetBanned(txCtx, sess, userID, !current)
	}, func(c *po.Captioner) bool { return c.Banned })
}

// toggleRole 目标用户既无作者档案也无任何角色时视为不存在。
func (s *RoleService) toggleRole(ctx context.Context, auth metadata.AuthContext, rawTarget string, role po.Role) error {
	target, ok := parseID(rawTarget)
	if !ok {
		return errNotFound(MsgTargetUserNotFound)
	}
	return s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		exists, err := s.userExists(txCtx, sess, target)
		if err != nil {
			return err
		}
		if !exists {
			return errNotFound(MsgTargetUserNotFound)
		}
		has, err := s.roles.HasRole(txCtx, sess, target, role)
		if err != nil {
			return err
		}
		if has {
			err = s.roles.Revoke(txCtx, sess, target, role)
		} else {
			err = s.roles.Grant(txCtx, sess, target, role)
		}
		if err != nil {
			return err
		}
		s.log.WithContext(txCtx).Infof("role toggled: role=%s target=%s granted=%t by=%s", role, target, !has, auth.UserID)
		return nil
	})
}

func (s *RoleService) toggleCaptioner(
	ctx context.Context,
	auth metadata.AuthContext,
	rawTarget string,
	flag string,
	set func(context.Context, txmanager.Session, uuid.UUID, bool) error,
	current func(*po.Captioner) bool,
) error {
	if !auth.Authenticated() {
		return errNotLoggedIn()
	}
	if !auth.Roles.Admin {
		return errDenied(MsgNotAuthorized)
	}
	target, ok := parseID(rawTarget)
	if !ok {
		return errNotFound(MsgTargetUserNotFound)
	}
	return s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		captioner, err := s.profiles.Captioner(txCtx, sess, target)
		if err != nil {
			return err
		}
		if captioner == nil {
			return errNotFound(MsgTargetUserNotFound)
		}
		before := current(captioner)
		if err := set(txCtx, sess, target, before); err != nil {
			return err
		}
		s.log.WithContext(txCtx).Infof("captioner flag toggled: flag=%s target=%s value=%t by=%s", flag, target, !before, auth.UserID)
		return nil
	})
}

func (s *RoleService) userExists(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (bool, error) {
	captioner, err := s.profiles.Captioner(ctx, sess, userID)
	if err != nil {
		return false, err
	}
	if captioner != nil {
		return true, nil
	}
	roles, err := s.roles.ListRoles(ctx, sess, userID)
	if err != nil {
		return false, err
	}
	return len(roles) > 0, nil
}
