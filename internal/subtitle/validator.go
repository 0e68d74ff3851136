// Package subtitle 负责高级字幕（ASS/SSA）原始文件的解码与结构校验。
package subtitle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"
	"github.com/h2non/filetype"
)

// 原始字幕类型。
const (
	RawTypeASS = "ass"
	RawTypeSSA = "ssa"
)

// 校验错误。
var (
	ErrBinaryPayload = errors.New("subtitle: payload is a binary file")
	ErrNoDialogue    = errors.New("subtitle: no dialogue events")
)

// IsASS 判断原始字幕类型是否为 ASS/SSA。
func IsASS(rawType string) bool {
	switch strings.ToLower(strings.TrimSpace(rawType)) {
	case RawTypeASS, RawTypeSSA:
		return true
	default:
		return false
	}
}

// ValidateASS 解析 ASS/SSA 文本，要求至少包含一条对白。
func ValidateASS(text string) error {
	head := []byte(text)
	if len(head) > 262 {
		head = head[:262]
	}
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		return fmt.Errorf("%w: %s", ErrBinaryPayload, kind.MIME.Value)
	}
	subs, err := astisub.ReadFromSSA(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("subtitle: parse ssa: %w", err)
	}
	if subs == nil || len(subs.Items) == 0 {
		return ErrNoDialogue
	}
	return nil
}

// ValidateCompressedASS 解压客户端上传的原始字幕并校验。
func ValidateCompressedASS(data string) error {
	text, err := DecompressFromBase64(data)
	if err != nil {
		return err
	}
	return ValidateASS(text)
}
