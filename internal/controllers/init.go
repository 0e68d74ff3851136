// Package controllers 提供 HTTP 传输层路由，负责解析身份、执行运行模式闸门并调用业务层。
// 该层负责参数校验、DTO 转换和错误信封映射。
package controllers

import "github.com/google/wire"

// ProviderSet exposes controller/handler constructors for DI.
var ProviderSet = wire.NewSet(
	ProvideHandlerTimeouts,
	NewBaseHandler,
	NewRouter,
)
