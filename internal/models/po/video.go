package po

import (
	"time"

	"github.com/google/uuid"
)

// Video 表示 captions.videos 表的一行，(SourceID, Source) 唯一。
// CaptionCount 恒等于 Captions 各语言计数之和，由计数钩子增量维护。
type Video struct {
	ID           uuid.UUID
	SourceID     string
	Source       string
	Name         string
	Language     string
	CaptionCount int32
	Captions     map[string]int32
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// 视频来源编码，与客户端约定的枚举值一致。
const (
	VideoSourceYoutube = "0"
	VideoSourceVimeo   = "1"
)
