package vo

import (
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/google/uuid"
)

// CanViewCaption 判断 viewer 是否可在列表中看到该字幕。
// 公开字幕对所有人可见；Unlisted 与 Private 仅作者本人可见。
func CanViewCaption(caption *po.Caption, viewer uuid.UUID) bool {
	if caption == nil {
		return false
	}
	if caption.IsPublic() {
		return true
	}
	return viewer != uuid.Nil && caption.CreatorID == viewer
}
