package metadata

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"

	"github.com/google/uuid"
)

// AuthContext 是网关认证后的调用方身份，由路由层构造并显式传给每个服务调用。
// UserID 为 uuid.Nil 表示匿名请求。
type AuthContext struct {
	UserID       uuid.UUID
	Roles        vo.RoleSet
	SessionToken string
}

// Anonymous 返回匿名身份。
func Anonymous() AuthContext {
	return AuthContext{}
}

// Authenticated 判断是否为已登录用户。
func (a AuthContext) Authenticated() bool {
	return a.UserID != uuid.Nil
}

// IsSelf 判断目标用户是否为调用方本人。
func (a AuthContext) IsSelf(userID uuid.UUID) bool {
	return a.Authenticated() && a.UserID == userID
}

type authKey struct{}

// WithAuth 将 AuthContext 写入 Context，供日志与下游读取。
func WithAuth(ctx context.Context, auth AuthContext) context.Context {
	return context.WithValue(ctx, authKey{}, auth)
}

// AuthFromContext 读取 AuthContext，不存在时返回匿名身份。
func AuthFromContext(ctx context.Context) AuthContext {
	if ctx == nil {
		return Anonymous()
	}
	auth, ok := ctx.Value(authKey{}).(AuthContext)
	if !ok {
		return Anonymous()
	}
	return auth
}
