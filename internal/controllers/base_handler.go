package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"

	"github.com/go-kratos/kratos/v2/transport"
)

// HandlerType 表示 Handler 的语义类别，用于选择超时策略。
type HandlerType int

const (
	// HandlerTypeDefault 表示未显式区分的 Handler。
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand 表示写模型命令 Handler。
	HandlerTypeCommand
	// HandlerTypeQuery 表示读模型查询 Handler。
	HandlerTypeQuery
)

// HandlerTimeouts 聚合不同类型 Handler 的超时策略。
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
}

const (
	fallbackDefaultTimeout = 5 * time.Second
	fallbackQueryTimeout   = 3 * time.Second
	headerUserInfo         = "x-apigateway-api-userinfo"
	headerSessionToken     = "x-session-token"
)

// BaseHandler 提供公共的超时、Metadata 解析能力，供路由复用。
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler 构造基础 Handler，并为缺省值填充合理的回退策略。
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		if timeouts.Command > 0 {
			timeouts.Default = timeouts.Command
		} else if timeouts.Query > 0 {
			timeouts.Default = timeouts.Query
		} else {
			timeouts.Default = fallbackDefaultTimeout
		}
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	if timeouts.Query <= 0 {
		if timeouts.Default > 0 {
			timeouts.Query = timeouts.Default
		} else {
			timeouts.Query = fallbackQueryTimeout
		}
	}
	return &BaseHandler{timeouts: timeouts}
}

// ProvideHandlerTimeouts 将配置中的超时转换为 HandlerTimeouts。
func ProvideHandlerTimeouts(cfg configloader.ServerConfig) HandlerTimeouts {
	return HandlerTimeouts{
		Default: cfg.Handlers.Default,
		Command: cfg.Handlers.Command,
		Query:   cfg.Handlers.Query,
	}
}

// WithTimeout 根据 Handler 类型包装上下文，返回绑定超时的新 Context 与取消函数。
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = h.timeouts.Command
	case HandlerTypeQuery:
		timeout = h.timeouts.Query
	default:
		timeout = h.timeouts.Default
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// ExtractMetadata 从 Kratos 传输层 Header 中解析网关用户信息与会话令牌。
func (h *BaseHandler) ExtractMetadata(ctx context.Context) metadata.RequestMetadata {
	tr, ok := transport.FromServerContext(ctx)
	if !ok {
		return metadata.RequestMetadata{}
	}
	header := tr.RequestHeader()
	meta := metadata.RequestMetadata{
		SessionToken: headerValue(header, headerSessionToken),
		RawUserInfo:  headerValue(header, headerUserInfo),
	}
	if meta.RawUserInfo == "" {
		return meta
	}
	info, err := metadata.ParseUserInfo(meta.RawUserInfo)
	if err != nil {
		meta.InvalidUserInfo = true
		return meta
	}
	meta.UserID = info.Subject
	meta.Email = info.Email
	return meta
}

// InjectRequestMetadata 将解析结果注入到 Context，供后续层访问。
func InjectRequestMetadata(ctx context.Context, meta metadata.RequestMetadata) context.Context {
	return metadata.Inject(ctx, meta)
}

// RequestMetadataFromContext 读取上游注入的 RequestMetadata。
func RequestMetadataFromContext(ctx context.Context) (metadata.RequestMetadata, bool) {
	return metadata.FromContext(ctx)
}

func headerValue(header transport.Header, key string) string {
	if header == nil {
		return ""
	}
	return strings.TrimSpace(header.Get(key))
}
