package metadata

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// 网关用户信息解析错误。
var (
	ErrUserInfoEncoding = errors.New("metadata: userinfo is not base64 json")
	ErrUserInfoSubject  = errors.New("metadata: userinfo carries no subject")
)

// RequestMetadata 是路由层从网关请求头解析出的原始身份信息，尚未查询角色。
type RequestMetadata struct {
	UserID          string
	Email           string
	SessionToken    string
	RawUserInfo     string
	InvalidUserInfo bool
}

// IsZero 判断是否未携带任何身份头。
func (m RequestMetadata) IsZero() bool {
	return m == RequestMetadata{}
}

// UserUUID 返回作为作者 ID 使用的用户 UUID，非 UUID 的主体视为匿名。
func (m RequestMetadata) UserUUID() (uuid.UUID, bool) {
	if m.InvalidUserInfo || strings.TrimSpace(m.UserID) == "" {
		return uuid.Nil, false
	}
	value, err := uuid.Parse(m.UserID)
	if err != nil || value == uuid.Nil {
		return uuid.Nil, false
	}
	return value, true
}

type ctxKey struct{}

// Inject 将 RequestMetadata 注入 Context。
func Inject(ctx context.Context, meta RequestMetadata) context.Context {
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, meta)
}

// FromContext 读取上游注入的 RequestMetadata。
func FromContext(ctx context.Context) (RequestMetadata, bool) {
	if ctx == nil {
		return RequestMetadata{}, false
	}
	meta, ok := ctx.Value(ctxKey{}).(RequestMetadata)
	return meta, ok
}

// UserInfo 是 X-Apigateway-Api-Userinfo 中本服务关心的声明。
type UserInfo struct {
	Subject string
	Email   string
}

type userInfoClaims struct {
	Sub    string `json:"sub"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ParseUserInfo 解码网关转发的 JWT 声明，sub 优先，缺失时回退 user_id。
func ParseUserInfo(raw string) (UserInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UserInfo{}, ErrUserInfoSubject
	}
	payload, ok := decodeBase64(raw)
	if !ok {
		return UserInfo{}, ErrUserInfoEncoding
	}
	var claims userInfoClaims
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(payload, &claims); err != nil {
		return UserInfo{}, ErrUserInfoEncoding
	}
	subject := strings.TrimSpace(claims.Sub)
	if subject == "" {
		subject = strings.TrimSpace(claims.UserID)
	}
	if subject == "" {
		return UserInfo{}, ErrUserInfoSubject
	}
	return UserInfo{Subject: subject, Email: strings.TrimSpace(claims.Email)}, nil
}

// 网关可能输出带或不带填充的 URL 安全编码，也可能是标准编码。
var userInfoEncodings = []*base64.Encoding{
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

func decodeBase64(raw string) ([]byte, bool) {
	for _, enc := range userInfoEncodings {
		if payload, err := enc.DecodeString(raw); err == nil {
			return payload, true
		}
	}
	return nil, false
}
