package gcs

import "github.com/google/wire"

// ProviderSet 暴露原始字幕文件存储。
var ProviderSet = wire.NewSet(ProvideStore)
