// Package clients 封装字幕服务依赖的外部 HTTP 接口。
// 每个客户端都带有重试与熔断，失败时由调用方决定降级策略。
package clients

import "github.com/google/wire"

// ProviderSet 暴露 Clients 层的构造函数供 Wire 依赖注入使用。
var ProviderSet = wire.NewSet(
	ProvideOEmbedClient,
	ProvideTimedTextClient,
)
