package cache

import "github.com/google/wire"

// ProviderSet 暴露 Redis 缓存的构造函数。
var ProviderSet = wire.NewSet(ProvideCache)
